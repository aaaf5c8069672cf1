package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/pkg/geospatial"
)

const profileColumns = `id, latitude, longitude, date, COALESCE(institution, ''),
	COALESCE(platform_number, ''), COALESCE(position_qc, 0),
	COALESCE(ocean_data, '{}'::jsonb), COALESCE(file_path, ''), created_at`

// ProfileRepo implements ports.ProfileRepository with pgx.
//
// Every storage failure surfaces wrapped in domain.ErrRetrievalUnavailable so
// callers can distinguish "no matches" from "could not look".
type ProfileRepo struct {
	db  *DB
	lex *lexicon.Lexicon
}

// NewProfileRepo creates a new ProfileRepo. The lexicon maps measurement
// categories to the canonical JSONB keys used in presence predicates.
func NewProfileRepo(db *DB, lex *lexicon.Lexicon) *ProfileRepo {
	return &ProfileRepo{db: db, lex: lex}
}

// Insert stores a single profile.
func (r *ProfileRepo) Insert(ctx context.Context, p *domain.Profile) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO argo_profiles (latitude, longitude, date, institution, platform_number, position_qc, ocean_data, file_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, p.Location.Lat, p.Location.Lon, p.Date, p.Institution, p.PlatformNumber,
		p.PositionQC, p.OceanData, p.FilePath).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return retrievalErr("insert profile", err)
	}
	return nil
}

// InsertBatch stores many profiles using pgx.Batch.
func (r *ProfileRepo) InsertBatch(ctx context.Context, profiles []domain.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range profiles {
		p := &profiles[i]
		batch.Queue(`
			INSERT INTO argo_profiles (latitude, longitude, date, institution, platform_number, position_qc, ocean_data, file_path)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.Location.Lat, p.Location.Lon, p.Date, p.Institution, p.PlatformNumber,
			p.PositionQC, p.OceanData, p.FilePath)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range profiles {
		if _, err := br.Exec(); err != nil {
			return retrievalErr("batch insert", err)
		}
	}
	return nil
}

// GetByID returns a profile by its numeric id.
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM argo_profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, retrievalErr("get profile", err)
	}
	return p, nil
}

// List returns a page of profiles, newest first, plus the total count.
func (r *ProfileRepo) List(ctx context.Context, offset, limit int) ([]domain.Profile, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM argo_profiles`).Scan(&total); err != nil {
		return nil, 0, retrievalErr("count profiles", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM argo_profiles
		ORDER BY date DESC, id DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, retrievalErr("list profiles", err)
	}
	defer rows.Close()

	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, 0, retrievalErr("list profiles", err)
	}
	return profiles, total, nil
}

// FindNearby returns profiles within radiusMeters of the point, closest first.
// The table stores plain lat/lon columns, so the query prefilters with a
// degree box and the exact great-circle distance is computed client-side.
func (r *ProfileRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Profile, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM argo_profiles
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		LIMIT $5
	`, minLat, maxLat, minLon, maxLon, limit*4)
	if err != nil {
		return nil, retrievalErr("find nearby", err)
	}
	defer rows.Close()

	candidates, err := scanProfiles(rows)
	if err != nil {
		return nil, retrievalErr("find nearby", err)
	}

	var matched []domain.Profile
	for i := range candidates {
		d := geospatial.Haversine(lat, lon, candidates[i].Location.Lat, candidates[i].Location.Lon)
		if d <= radiusMeters {
			candidates[i].Distance = &d
			matched = append(matched, candidates[i])
		}
	}
	sort.Slice(matched, func(i, j int) bool { return *matched[i].Distance < *matched[j].Distance })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// SearchText matches institution and platform number, newest first.
func (r *ProfileRepo) SearchText(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM argo_profiles
		WHERE institution ILIKE $1 OR platform_number ILIKE $1
		ORDER BY date DESC
		LIMIT $2
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, retrievalErr("search profiles", err)
	}
	defer rows.Close()

	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, retrievalErr("search profiles", err)
	}
	return profiles, nil
}

// ScanSummary computes the corpus-level aggregate for the predicate set in a
// single server-side query.
func (r *ProfileRepo) ScanSummary(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
	where, args := r.buildWhere(preds, nil)

	query := `
		SELECT COUNT(*),
		       MIN(date), MAX(date),
		       COALESCE(MIN(latitude), 0), COALESCE(MAX(latitude), 0), COALESCE(AVG(latitude), 0),
		       COALESCE(MIN(longitude), 0), COALESCE(MAX(longitude), 0), COALESCE(AVG(longitude), 0),
		       COUNT(DISTINCT institution),
		       COALESCE(array_agg(DISTINCT institution) FILTER (WHERE institution IS NOT NULL), '{}')
		FROM argo_profiles` + where

	var s domain.CorpusSummary
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&s.ProfileCount,
		&s.DateMin, &s.DateMax,
		&s.LatMin, &s.LatMax, &s.LatAvg,
		&s.LonMin, &s.LonMax, &s.LonAvg,
		&s.InstitutionCount,
		&s.InstitutionNames,
	)
	if err != nil {
		return nil, retrievalErr("scan summary", err)
	}
	return &s, nil
}

// ScanSample returns up to limit matching records whose measurement payload is
// non-empty, for client-side statistics.
func (r *ProfileRepo) ScanSample(ctx context.Context, preds domain.PredicateSet, limit int) ([]domain.Profile, error) {
	extra := []string{"ocean_data IS NOT NULL", "ocean_data != '{}'::jsonb"}
	where, args := r.buildWhere(preds, extra)
	args = append(args, limit)

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM argo_profiles`+where+`
		LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, retrievalErr("scan sample", err)
	}
	defer rows.Close()

	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, retrievalErr("scan sample", err)
	}
	return profiles, nil
}

// buildWhere translates a predicate set into a WHERE clause and its args.
// Placeholders continue from $1; extra conditions are appended verbatim.
func (r *ProfileRepo) buildWhere(preds domain.PredicateSet, extra []string) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if bb := preds.BoundingBox; bb != nil {
		clauses = append(clauses,
			fmt.Sprintf("latitude BETWEEN %s AND %s", next(bb.Bounds.MinLat), next(bb.Bounds.MaxLat)))
		if bb.Bounds.CrossesAntimeridian() {
			// The box wraps through 180°: the Pacific's span is one OR, not
			// an impossible BETWEEN.
			clauses = append(clauses,
				fmt.Sprintf("(longitude >= %s OR longitude <= %s)", next(bb.Bounds.MinLon), next(bb.Bounds.MaxLon)))
		} else {
			clauses = append(clauses,
				fmt.Sprintf("longitude BETWEEN %s AND %s", next(bb.Bounds.MinLon), next(bb.Bounds.MaxLon)))
		}
	}

	if dr := preds.DateRange; dr != nil {
		if dr.Equality {
			clauses = append(clauses, fmt.Sprintf("date = %s", next(dr.Start)))
		} else {
			clauses = append(clauses,
				fmt.Sprintf("date BETWEEN %s AND %s", next(dr.Start), next(dr.End)))
		}
	}

	if keys := r.presenceKeys(preds.MeasurementPresence); len(keys) > 0 {
		var presence []string
		for _, key := range keys {
			presence = append(presence, fmt.Sprintf("ocean_data ? %s", next(key)))
		}
		clauses = append(clauses, "("+strings.Join(presence, " OR ")+")")
	}

	clauses = append(clauses, extra...)
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// presenceKeys maps categories to canonical JSONB keys, deduplicating keys
// shared across categories (depth and pressure both live under pres).
func (r *ProfileRepo) presenceKeys(categories []domain.MeasurementCategory) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, category := range categories {
		info := r.lex.CategoryFor(category)
		if info == nil {
			continue
		}
		if _, dup := seen[info.CanonicalKey]; dup {
			continue
		}
		seen[info.CanonicalKey] = struct{}{}
		keys = append(keys, info.CanonicalKey)
	}
	return keys
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Location.Lat, &p.Location.Lon, &p.Date,
		&p.Institution, &p.PlatformNumber, &p.PositionQC,
		&p.OceanData, &p.FilePath, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func retrievalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrRetrievalUnavailable, op, err)
}
