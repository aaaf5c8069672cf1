package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/oceanlab/argoscout/internal/adapters/http"
	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/core/usecases"
)

// ---- Mock repository ----

type mockProfileRepo struct {
	getByIDFn     func(ctx context.Context, id int64) (*domain.Profile, error)
	listFn        func(ctx context.Context, offset, limit int) ([]domain.Profile, int, error)
	findNearbyFn  func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Profile, error)
	searchTextFn  func(ctx context.Context, query string, limit int) ([]domain.Profile, error)
	scanSummaryFn func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error)
	scanSampleFn  func(ctx context.Context, preds domain.PredicateSet, limit int) ([]domain.Profile, error)
}

func (m *mockProfileRepo) Insert(ctx context.Context, p *domain.Profile) error        { return nil }
func (m *mockProfileRepo) InsertBatch(ctx context.Context, ps []domain.Profile) error { return nil }
func (m *mockProfileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockProfileRepo) List(ctx context.Context, offset, limit int) ([]domain.Profile, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}
func (m *mockProfileRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Profile, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}
func (m *mockProfileRepo) SearchText(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, query, limit)
	}
	return nil, nil
}
func (m *mockProfileRepo) ScanSummary(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
	if m.scanSummaryFn != nil {
		return m.scanSummaryFn(ctx, preds)
	}
	return &domain.CorpusSummary{}, nil
}
func (m *mockProfileRepo) ScanSample(ctx context.Context, preds domain.PredicateSet, limit int) ([]domain.Profile, error) {
	if m.scanSampleFn != nil {
		return m.scanSampleFn(ctx, preds, limit)
	}
	return nil, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(repo *mockProfileRepo) *handler.Dependencies {
	lex := lexicon.New()
	intents := usecases.NewIntentService(lex, usecases.NewStopwordKeywordExtractor(lex))
	aggregator := usecases.NewAggregationService(repo, lex)
	return &handler.Dependencies{
		Query:      usecases.NewQueryService(intents, aggregator, nil, nil),
		Aggregator: aggregator,
		Profiles:   repo,
		Lexicon:    lex,
		SampleCap:  1000,
	}
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

// ---- Query handler tests ----

func TestQuery_Success(t *testing.T) {
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			if preds.BoundingBox == nil || preds.BoundingBox.Name != "Indian Ocean" {
				t.Errorf("expected Indian Ocean predicate, got %+v", preds.BoundingBox)
			}
			return &domain.CorpusSummary{ProfileCount: 17}, nil
		},
		scanSampleFn: func(ctx context.Context, preds domain.PredicateSet, limit int) ([]domain.Profile, error) {
			return []domain.Profile{{OceanData: map[string]any{"temp": []any{20.5, 21.5}}}}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	body := strings.NewReader(`{"query":"average temperature in Indian Ocean in 2004"}`)
	req := httptest.NewRequest("POST", "/v1/query", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result struct {
		Intent *struct {
			Confidence float64 `json:"confidence"`
		} `json:"intent"`
		Result *struct {
			ProfileCount int64 `json:"profile_count"`
		} `json:"result"`
		IntentApplied bool `json:"intent_applied"`
		Approximate   bool `json:"approximate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.IntentApplied {
		t.Error("expected intent_applied true")
	}
	if !result.Approximate {
		t.Error("sampled statistics must be flagged approximate")
	}
	if result.Result == nil || result.Result.ProfileCount != 17 {
		t.Errorf("expected profile_count 17, got %+v", result.Result)
	}
	if result.Intent == nil || result.Intent.Confidence <= 0 {
		t.Errorf("expected a positive confidence, got %+v", result.Intent)
	}
}

func TestQuery_EmptyBody(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("POST", "/v1/query", strings.NewReader(`{"query":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestQuery_QueryTooLong(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	long := strings.Repeat("temperature ", 60)
	req := httptest.NewRequest("POST", "/v1/query",
		strings.NewReader(`{"query":"`+long+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestQuery_StorageDown(t *testing.T) {
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			return nil, domain.ErrRetrievalUnavailable
		},
	}
	app := setupApp(makeDeps(repo))

	req := httptest.NewRequest("POST", "/v1/query", strings.NewReader(`{"query":"profiles in 2015"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	var apiErr handler.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatal(err)
	}
	if apiErr.Code != "retrieval_unavailable" {
		t.Errorf("expected retrieval_unavailable, got %q", apiErr.Code)
	}
}

func TestParseIntent(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/query/intent?q=salinity+in+the+Red+Sea", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var intent struct {
		GeographicBounds *struct {
			Name string `json:"name"`
		} `json:"geographic_bounds"`
		MeasurementTypes []string `json:"measurement_types"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		t.Fatal(err)
	}
	if intent.GeographicBounds == nil || intent.GeographicBounds.Name != "Red Sea" {
		t.Errorf("expected Red Sea, got %+v", intent.GeographicBounds)
	}
	if len(intent.MeasurementTypes) != 1 || intent.MeasurementTypes[0] != "salinity" {
		t.Errorf("expected [salinity], got %v", intent.MeasurementTypes)
	}
}

func TestParseIntent_MissingQuery(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/query/intent", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Region and profile handler tests ----

func TestRegions(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/regions", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var regions []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&regions); err != nil {
		t.Fatal(err)
	}
	if len(regions) < 8 {
		t.Errorf("expected the full region lexicon, got %d entries", len(regions))
	}
}

func TestListProfiles_Pagination(t *testing.T) {
	repo := &mockProfileRepo{
		listFn: func(ctx context.Context, offset, limit int) ([]domain.Profile, int, error) {
			if offset != 50 || limit != 25 {
				t.Errorf("expected offset 50 limit 25, got %d/%d", offset, limit)
			}
			return []domain.Profile{{ID: 51}}, 120, nil
		},
	}
	app := setupApp(makeDeps(repo))

	req := httptest.NewRequest("GET", "/v1/profiles?offset=50&limit=25", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected a next link, got %q", link)
	}

	var result struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 120 {
		t.Errorf("expected total 120, got %d", result.Pagination.Total)
	}
}

func TestNearbyProfiles_Validation(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/profiles/nearby?lat=95&lon=0", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for lat out of range, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/v1/profiles/nearby?lat=40&lon=-30&radius=99999999", nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for oversized radius, got %d", resp.StatusCode)
	}
}

func TestNearbyProfiles_Success(t *testing.T) {
	dist := 1234.5
	repo := &mockProfileRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Profile, error) {
			return []domain.Profile{
				{ID: 1, Location: domain.GeoPoint{Lat: 40.01, Lon: -30.01}, Distance: &dist},
			}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	req := httptest.NewRequest("GET", "/v1/profiles/nearby?lat=40&lon=-30&radius=5000", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var profiles []domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 || profiles[0].Distance == nil {
		t.Errorf("expected one profile with distance, got %+v", profiles)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/profiles/42", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetProfile_BadID(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/profiles/abc", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetProfile_Success(t *testing.T) {
	repo := &mockProfileRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Profile, error) {
			return &domain.Profile{
				ID:          id,
				Location:    domain.GeoPoint{Lat: -12, Lon: 77},
				Date:        time.Date(2019, 5, 2, 0, 0, 0, 0, time.UTC),
				Institution: "CSIRO",
			}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	req := httptest.NewRequest("GET", "/v1/profiles/7", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var p domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 7 || p.Institution != "CSIRO" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestCorpusStats(t *testing.T) {
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			return &domain.CorpusSummary{ProfileCount: 9999, InstitutionCount: 4}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	req := httptest.NewRequest("GET", "/v1/stats", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		ProfileCount int64 `json:"profile_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.ProfileCount != 9999 {
		t.Errorf("expected 9999, got %d", result.ProfileCount)
	}
}

// ---- Legacy endpoint ----

func TestLegacySearch_DeprecationHeaders(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/search?q=temperature+in+2004", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header on legacy endpoint")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header on legacy endpoint")
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, "/v1/query") {
		t.Errorf("expected successor link, got %q", link)
	}
}

// ---- System endpoints ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(&mockProfileRepo{}))

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
