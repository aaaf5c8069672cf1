package workflows

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/ports"
	"github.com/oceanlab/argoscout/internal/pkg/metrics"
)

var institutions = []string{
	"SCRIPPS_INSTITUTION_OCEANOGRAPHY",
	"WHOI", "CSIRO", "IFREMER", "JMA",
	"INDIAN_OCEAN_RESEARCH", "NEMO_FLOATS",
	"OCEANOGRAPHIC_SURVEY_INDIA",
}

var platforms = []string{
	"APEX_001", "NOVA_002", "SOLO_003", "ARVOR_004",
	"PROVOR_005", "NAVIS_006", "DEEP_007",
}

// IngestActivities holds the activity implementations for the ingest workflow.
type IngestActivities struct {
	Profiles  ports.ProfileRepository
	Publisher ports.EventPublisher
}

// GenerateAndStoreBatch synthesises one batch of profiles inside the input's
// spatial and temporal window and persists it. Returns the number stored.
func (a *IngestActivities) GenerateAndStoreBatch(ctx context.Context, input IngestInput, batch int) (int, error) {
	started := time.Now()

	dateStart, dateEnd, err := parseDateWindow(input.DateStart, input.DateEnd)
	if err != nil {
		return 0, err
	}

	profiles := make([]domain.Profile, 0, batch)
	for i := 0; i < batch; i++ {
		profiles = append(profiles, synthesiseProfile(input, dateStart, dateEnd))
	}

	if err := a.Profiles.InsertBatch(ctx, profiles); err != nil {
		return 0, fmt.Errorf("store batch: %w", err)
	}

	metrics.ProfilesIngested.WithLabelValues("synthetic").Add(float64(batch))
	metrics.IngestBatchDuration.Observe(time.Since(started).Seconds())
	return batch, nil
}

// AnnounceIngest publishes the ingest event consumed by cache invalidation.
func (a *IngestActivities) AnnounceIngest(ctx context.Context, count int, institution string) error {
	if a.Publisher == nil {
		return nil
	}
	return a.Publisher.PublishProfilesIngested(ctx, &domain.ProfilesIngestedEvent{
		Count:       count,
		Source:      "synthetic",
		Institution: institution,
		Time:        time.Now().UTC(),
	})
}

func parseDateWindow(start, end string) (time.Time, time.Time, error) {
	// Default window matches the bulk of the historical corpus.
	s := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	e := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	if start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return s, e, fmt.Errorf("parse date_start: %w", err)
		}
		s = parsed
	}
	if end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			return s, e, fmt.Errorf("parse date_end: %w", err)
		}
		e = parsed
	}
	if e.Before(s) {
		return s, e, fmt.Errorf("date window ends before it starts: %s > %s", start, end)
	}
	return s, e, nil
}

// synthesiseProfile builds one plausible float surfacing: a depth ladder of
// temperature, salinity and pressure samples under the canonical payload keys.
func synthesiseProfile(input IngestInput, dateStart, dateEnd time.Time) domain.Profile {
	minLat, maxLat := input.MinLat, input.MaxLat
	minLon, maxLon := input.MinLon, input.MaxLon
	if minLat == 0 && maxLat == 0 && minLon == 0 && maxLon == 0 {
		// Indian Ocean by default
		minLat, maxLat = -30, 30
		minLon, maxLon = 30, 120
	}

	lat := minLat + rand.Float64()*(maxLat-minLat)
	lon := minLon + rand.Float64()*(maxLon-minLon)

	days := int(dateEnd.Sub(dateStart).Hours() / 24)
	date := dateStart.AddDate(0, 0, rand.Intn(days+1))

	institution := input.Institution
	if institution == "" {
		institution = institutions[rand.Intn(len(institutions))]
	}

	levels := 20 + rand.Intn(81)
	temps := make([]any, 0, levels)
	salts := make([]any, 0, levels)
	press := make([]any, 0, levels)
	for i := 0; i < levels; i++ {
		depth := float64(i) * (5 + rand.Float64()*10)

		// Temperature decreases with depth, floor at 2°C
		temp := 25 - depth*0.01 + (rand.Float64()*4 - 2)
		if temp < 2 {
			temp = 2
		}

		temps = append(temps, round2(temp))
		salts = append(salts, round2(34.5+(rand.Float64()*2-1)))
		press = append(press, round2(depth*0.1+(rand.Float64()*0.2-0.1)))
	}

	qcFlags := []int{1, 2, 8}
	return domain.Profile{
		Location:       domain.GeoPoint{Lat: round4(lat), Lon: round4(lon)},
		Date:           date,
		Institution:    institution,
		PlatformNumber: platforms[rand.Intn(len(platforms))],
		PositionQC:     qcFlags[rand.Intn(len(qcFlags))],
		OceanData: map[string]any{
			"temp": temps,
			"psal": salts,
			"pres": press,
		},
		FilePath: fmt.Sprintf("synthetic/profile_%04d.nc", 1000+rand.Intn(9000)),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
