package usecases

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/core/ports"
	"github.com/oceanlab/argoscout/internal/pkg/geospatial"
)

// Years outside this window are treated as noise (page numbers, float IDs).
const (
	minQueryYear = 1950
	maxQueryYear = 2030
)

// Confidence weights. Additive, capped at 1.0.
const (
	confidenceBase        = 0.30
	confidenceGeographic  = 0.25
	confidenceTemporal    = 0.25
	confidenceMeasurement = 0.15
	confidenceStatistical = 0.05
)

var (
	coordPattern     = regexp.MustCompile(`(?i)(-?\d+\.?\d*)\s*([ns])[,\s]\s*(-?\d+\.?\d*)\s*([ew])`)
	monthYearPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`)
	yearPattern      = regexp.MustCompile(`\b(\d{4})\b`)
)

// IntentService turns free-text queries into structured intents. Parse never
// fails: every extraction pass is independently optional, and a query that
// matches nothing yields a zero-confidence intent.
type IntentService struct {
	lex      *lexicon.Lexicon
	keywords ports.KeywordExtractor

	// One compiled word-boundary matcher per category, in lexicon order.
	categoryPatterns [][]*regexp.Regexp
}

// NewIntentService builds an extractor over the given lexicon and keyword
// capability. The lexicon is read-only; keyword patterns are compiled once
// here so Parse allocates no regexps.
func NewIntentService(lex *lexicon.Lexicon, keywords ports.KeywordExtractor) *IntentService {
	s := &IntentService{lex: lex, keywords: keywords}
	for _, cat := range lex.Categories {
		patterns := make([]*regexp.Regexp, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			// Word boundaries keep unit abbreviations from matching inside
			// unrelated words ("c" must not fire on "ocean").
			patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		s.categoryPatterns = append(s.categoryPatterns, patterns)
	}
	return s
}

// Parse extracts a structured intent from a natural-language query.
func (s *IntentService) Parse(query string) *domain.QueryIntent {
	lowered := strings.ToLower(strings.TrimSpace(query))

	intent := &domain.QueryIntent{RawQuery: query}

	if bounds := s.extractGeography(lowered); bounds != nil {
		intent.GeographicBounds = bounds
		intent.QueryTypes = append(intent.QueryTypes, domain.QueryTypeGeographic)
	}

	if filter := s.extractTemporal(lowered); filter != nil {
		intent.TemporalFilter = filter
		intent.QueryTypes = append(intent.QueryTypes, domain.QueryTypeTemporal)
	}

	if categories := s.extractMeasurements(lowered); len(categories) > 0 {
		intent.MeasurementTypes = categories
		intent.QueryTypes = append(intent.QueryTypes, domain.QueryTypeMeasurement)
	}

	if ops := s.extractStatistical(lowered); len(ops) > 0 {
		intent.StatisticalOperations = ops
		intent.QueryTypes = append(intent.QueryTypes, domain.QueryTypeStatistical)
	}

	if s.keywords != nil {
		intent.Keywords = s.keywords.ExtractContentWords(query)
	}

	intent.Confidence = scoreConfidence(intent)
	return intent
}

// extractGeography matches lexicon region names by substring; when several
// regions match, the one with the smallest bounding-box area wins (most
// specific region), with lexicon order breaking exact ties. Failing that, a
// coordinate pair like "45.5N, 30.2E" synthesises a ±5° box around the point.
func (s *IntentService) extractGeography(query string) *domain.GeographicBounds {
	var best *domain.GeographicBounds
	bestArea := 0.0
	for i := range s.lex.Regions {
		r := &s.lex.Regions[i]
		if !strings.Contains(query, r.Phrase) {
			continue
		}
		area := geospatial.ApproxAreaKm2(
			r.Bounds.Bounds.MinLat, r.Bounds.Bounds.MaxLat,
			r.Bounds.Bounds.MinLon, r.Bounds.Bounds.MaxLon,
		)
		if best == nil || area < bestArea {
			b := r.Bounds
			best = &b
			bestArea = area
		}
	}
	if best != nil {
		return best
	}

	m := coordPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lon, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	if strings.EqualFold(m[2], "s") {
		lat = -lat
	}
	if strings.EqualFold(m[4], "w") {
		lon = -lon
	}
	return &domain.GeographicBounds{
		Name: fmt.Sprintf("Point Region (%g, %g)", lat, lon),
		Bounds: domain.Bounds{
			MinLat: lat - 5, MaxLat: lat + 5,
			MinLon: lon - 5, MaxLon: lon + 5,
		},
	}
}

// extractTemporal tries patterns in priority order, first match wins:
// month+year, bare in-range year, then a general date-phrase parse treated as
// a single day.
func (s *IntentService) extractTemporal(query string) *domain.TemporalFilter {
	if m := monthYearPattern.FindStringSubmatch(query); m != nil {
		month := s.lex.Months[strings.ToLower(m[1])]
		year, _ := strconv.Atoi(m[2])
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		// First of the next month minus one day; time.Date normalises the
		// December→January rollover and AddDate resolves leap Februaries.
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return &domain.TemporalFilter{
			StartDate: &start,
			EndDate:   &end,
			Month:     month,
			Year:      year,
		}
	}

	for _, m := range yearPattern.FindAllStringSubmatch(query, -1) {
		year, _ := strconv.Atoi(m[1])
		if year < minQueryYear || year > maxQueryYear {
			continue
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return &domain.TemporalFilter{
			StartDate: &start,
			EndDate:   &end,
			Year:      year,
		}
	}

	if parsed, err := dateparse.ParseAny(query); err == nil {
		if y := parsed.Year(); y >= minQueryYear && y <= maxQueryYear {
			day := time.Date(y, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return &domain.TemporalFilter{
				StartDate: &day,
				EndDate:   &day,
				Month:     int(parsed.Month()),
				Year:      y,
			}
		}
	}

	return nil
}

// extractMeasurements returns the categories whose keywords appear in the
// query, deduplicated, in first-matched order.
func (s *IntentService) extractMeasurements(query string) []domain.MeasurementCategory {
	var found []domain.MeasurementCategory
	for i, cat := range s.lex.Categories {
		for _, pattern := range s.categoryPatterns[i] {
			if pattern.MatchString(query) {
				found = append(found, cat.Category)
				break
			}
		}
	}
	return found
}

func (s *IntentService) extractStatistical(query string) []string {
	var ops []string
	for _, kw := range s.lex.Statistical {
		if strings.Contains(query, kw) {
			ops = append(ops, kw)
		}
	}
	return ops
}

func scoreConfidence(intent *domain.QueryIntent) float64 {
	if len(intent.QueryTypes) == 0 {
		return 0
	}
	confidence := confidenceBase
	if intent.GeographicBounds != nil {
		confidence += confidenceGeographic
	}
	if intent.TemporalFilter != nil {
		confidence += confidenceTemporal
	}
	if len(intent.MeasurementTypes) > 0 {
		confidence += confidenceMeasurement
	}
	if len(intent.StatisticalOperations) > 0 {
		confidence += confidenceStatistical
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
