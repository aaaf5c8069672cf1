package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/pkg/metrics"
)

const maxQueryLength = 500

// queryRequest is the body of POST /v1/query.
type queryRequest struct {
	Query     string `json:"query"`
	SampleCap int    `json:"sample_cap"`
}

// QueryHandler answers a natural-language query about the profile corpus.
func QueryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req queryRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}
		if len(req.Query) > maxQueryLength {
			return errBadRequest(c, "query too long (max 500 characters)")
		}
		sampleCap := req.SampleCap
		if sampleCap <= 0 || sampleCap > deps.SampleCap {
			sampleCap = deps.SampleCap
		}

		resp, err := deps.Query.Handle(c.UserContext(), req.Query, sampleCap)
		if err != nil {
			metrics.QueriesTotal.WithLabelValues("error").Inc()
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}

		if resp.IntentApplied {
			metrics.QueriesTotal.WithLabelValues("ok").Inc()
			metrics.QueryConfidence.Observe(resp.Intent.Confidence)
			for _, qt := range resp.Intent.QueryTypes {
				metrics.IntentPasses.WithLabelValues(string(qt)).Inc()
			}
		} else {
			metrics.QueriesTotal.WithLabelValues("degraded").Inc()
		}

		return c.JSON(resp)
	}
}

// ParseIntentHandler exposes bare intent extraction without touching storage.
// GET /v1/query/intent?q=...
func ParseIntentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(q) > maxQueryLength {
			return errBadRequest(c, "query too long (max 500 characters)")
		}

		intent, err := deps.Query.ParseOnly(q)
		if err != nil {
			return errUnavailable(c, "intent extraction unavailable")
		}
		return c.JSON(intent)
	}
}

// RegionsHandler lists the named ocean regions the parser recognises.
func RegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type regionResp struct {
			Name   string        `json:"name"`
			Bounds domain.Bounds `json:"bounds"`
		}
		regions := make([]regionResp, 0, len(deps.Lexicon.Regions))
		for _, r := range deps.Lexicon.Regions {
			regions = append(regions, regionResp{Name: r.Bounds.Name, Bounds: r.Bounds.Bounds})
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(regions)
	}
}

// ListProfilesHandler returns a page of profiles, newest first.
func ListProfilesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		profiles, total, err := deps.Profiles.List(c.UserContext(), offset, limit)
		if err != nil {
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: profiles, Pagination: pg})
	}
}

// NearbyProfilesHandler returns profiles within a radius of a point.
func NearbyProfilesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 100000)
		limit := c.QueryInt("limit", 50)

		if lat < -90 || lat > 90 {
			return errBadRequest(c, "lat must be between -90 and 90")
		}
		if lon < -180 || lon > 180 {
			return errBadRequest(c, "lon must be between -180 and 180")
		}
		if radius <= 0 || radius > 2000000 {
			return errBadRequest(c, "radius must be between 1 and 2000000 meters")
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		profiles, err := deps.Profiles.FindNearby(c.UserContext(), lat, lon, radius, limit)
		if err != nil {
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(profiles)
	}
}

// GetProfileHandler returns a single profile by numeric id.
func GetProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || id <= 0 {
			return errBadRequest(c, "profile id must be a positive integer")
		}

		profile, err := deps.Profiles.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "profile not found")
			}
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(profile)
	}
}

// CorpusStatsHandler returns the unfiltered corpus summary.
func CorpusStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := deps.Aggregator.CountOnly(c.UserContext())
		if err != nil {
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(result)
	}
}

// SearchHandler is the legacy GET query endpoint, kept for old clients.
// Deprecated in favour of POST /v1/query; the deprecation middleware sets the
// sunset headers.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(q) > maxQueryLength {
			return errBadRequest(c, "query too long (max 500 characters)")
		}

		resp, err := deps.Query.Handle(c.UserContext(), q, deps.SampleCap)
		if err != nil {
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(resp)
	}
}

// TextSearchHandler matches profiles by institution or platform number.
func TextSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(q) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		profiles, err := deps.Profiles.SearchText(c.UserContext(), q, limit)
		if err != nil {
			if errors.Is(err, domain.ErrRetrievalUnavailable) {
				return errUnavailable(c, "profile store unavailable")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(profiles)
	}
}
