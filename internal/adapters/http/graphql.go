package http

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/oceanlab/argoscout/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"name":   &graphql.Field{Type: graphql.String},
			"bounds": &graphql.Field{Type: boundsType},
		},
	})

	geographicBoundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeographicBounds",
		Fields: graphql.Fields{
			"name":   &graphql.Field{Type: graphql.String},
			"bounds": &graphql.Field{Type: boundsType},
		},
	})

	temporalFilterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemporalFilter",
		Fields: graphql.Fields{
			"start_date": &graphql.Field{Type: graphql.DateTime},
			"end_date":   &graphql.Field{Type: graphql.DateTime},
			"month":      &graphql.Field{Type: graphql.Int},
			"year":       &graphql.Field{Type: graphql.Int},
		},
	})

	intentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "QueryIntent",
		Fields: graphql.Fields{
			"raw_query":              &graphql.Field{Type: graphql.String},
			"query_types":            &graphql.Field{Type: graphql.NewList(graphql.String)},
			"geographic_bounds":      &graphql.Field{Type: geographicBoundsType},
			"temporal_filter":        &graphql.Field{Type: temporalFilterType},
			"measurement_types":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"statistical_operations": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"keywords":               &graphql.Field{Type: graphql.NewList(graphql.String)},
			"confidence":             &graphql.Field{Type: graphql.Float},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"profile_id":      &graphql.Field{Type: graphql.Int},
			"location":        &graphql.Field{Type: geoPointType},
			"date":            &graphql.Field{Type: graphql.DateTime},
			"institution":     &graphql.Field{Type: graphql.String},
			"platform_number": &graphql.Field{Type: graphql.String},
			"position_qc":     &graphql.Field{Type: graphql.Int},
			"distance":        &graphql.Field{Type: graphql.Float},
		},
	})

	measurementStatsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MeasurementStats",
		Fields: graphql.Fields{
			"category":      &graphql.Field{Type: graphql.String},
			"average":       &graphql.Field{Type: graphql.Float},
			"min":           &graphql.Field{Type: graphql.Float},
			"max":           &graphql.Field{Type: graphql.Float},
			"std_deviation": &graphql.Field{Type: graphql.Float},
			"sample_count":  &graphql.Field{Type: graphql.Int},
			"unit":          &graphql.Field{Type: graphql.String},
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AggregatedResult",
		Fields: graphql.Fields{
			"profile_count":     &graphql.Field{Type: graphql.Int},
			"institution_count": &graphql.Field{Type: graphql.Int},
			"institutions":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"date_start":        &graphql.Field{Type: graphql.DateTime},
			"date_end":          &graphql.Field{Type: graphql.DateTime},
			"measurements":      &graphql.Field{Type: graphql.NewList(measurementStatsType)},
		},
	})

	answerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "QueryAnswer",
		Fields: graphql.Fields{
			"intent":         &graphql.Field{Type: intentType},
			"result":         &graphql.Field{Type: resultType},
			"intent_applied": &graphql.Field{Type: graphql.Boolean},
			"approximate":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"parseIntent": &graphql.Field{
				Type:        intentType,
				Description: "Extract structured intent from a natural-language query",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Query.ParseOnly(p.Args["query"].(string))
				},
			},
			"ask": &graphql.Field{
				Type:        answerType,
				Description: "Answer a natural-language query with aggregate statistics",
				Args: graphql.FieldConfigArgument{
					"query":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"sample_cap": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sampleCap := p.Args["sample_cap"].(int)
					if sampleCap <= 0 || sampleCap > deps.SampleCap {
						sampleCap = deps.SampleCap
					}
					resp, err := deps.Query.Handle(p.Context, p.Args["query"].(string), sampleCap)
					if err != nil {
						return nil, err
					}
					return gqlAnswer(resp.Intent, resp.Result, resp.IntentApplied, resp.Approximate), nil
				},
			},
			"regions": &graphql.Field{
				Type:        graphql.NewList(regionType),
				Description: "List the named ocean regions the parser recognises",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []map[string]interface{}
					for _, r := range deps.Lexicon.Regions {
						out = append(out, map[string]interface{}{
							"name":   r.Bounds.Name,
							"bounds": r.Bounds.Bounds,
						})
					}
					return out, nil
				},
			},
			"profilesNearby": &graphql.Field{
				Type:        graphql.NewList(profileType),
				Description: "Find profiles near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 100000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Profiles.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"profile": &graphql.Field{
				Type:        profileType,
				Description: "Get a profile by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Profiles.GetByID(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"corpusStats": &graphql.Field{
				Type:        resultType,
				Description: "Unfiltered corpus summary",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					result, err := deps.Aggregator.CountOnly(p.Context)
					if err != nil {
						return nil, err
					}
					answer := gqlAnswer(nil, result, true, false)
					return answer["result"], nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// gqlAnswer flattens a query response into GraphQL-friendly maps; the
// per-category measurements map becomes a sorted list.
func gqlAnswer(intent *domain.QueryIntent, result *domain.AggregatedResult, applied, approximate bool) map[string]interface{} {
	var measurements []map[string]interface{}
	for category, stats := range result.Measurements {
		measurements = append(measurements, map[string]interface{}{
			"category":      string(category),
			"average":       stats.Average,
			"min":           stats.Min,
			"max":           stats.Max,
			"std_deviation": stats.StdDeviation,
			"sample_count":  stats.SampleCount,
			"unit":          stats.Unit,
		})
	}
	sort.Slice(measurements, func(i, j int) bool {
		return measurements[i]["category"].(string) < measurements[j]["category"].(string)
	})

	res := map[string]interface{}{
		"profile_count":     result.ProfileCount,
		"institution_count": result.Institutions.Count,
		"institutions":      result.Institutions.Names,
		"measurements":      measurements,
	}
	if result.DateRange.Start != nil {
		res["date_start"] = *result.DateRange.Start
	}
	if result.DateRange.End != nil {
		res["date_end"] = *result.DateRange.End
	}

	return map[string]interface{}{
		"intent":         intent,
		"result":         res,
		"intent_applied": applied,
		"approximate":    approximate,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
