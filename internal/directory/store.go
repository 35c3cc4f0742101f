package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saylanihealth/sehat-ai/internal/geo"
)

// Store queries the clinic directory in PostgreSQL.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewStore creates a directory store.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{
		db:     db,
		tracer: otel.Tracer("sehat.internal.directory"),
	}
}

// haversineSQL computes the great-circle distance in km between the caller's
// location ($1=lat, $2=lng) and a branch row. Matches geo.DistanceKm.
const haversineSQL = `6371 * acos(least(1.0,
	cos(radians($1)) * cos(radians(lat)) * cos(radians(lng) - radians($2)) +
	sin(radians($1)) * sin(radians(lat))))`

// NearestBranches returns the closest active branches to the user within
// radiusKm, nearest first.
func (s *Store) NearestBranches(ctx context.Context, user geo.Point, limit int, radiusKm float64) ([]Branch, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("directory: store not initialized")
	}
	ctx, span := s.tracer.Start(ctx, "directory.nearest_branches")
	defer span.End()

	query := fmt.Sprintf(`
		SELECT branch_id, branch_name, city, area, full_address, phone,
		       lat, lng, schedule, distance_km
		FROM (
			SELECT *, %s AS distance_km
			FROM branches
			WHERE is_active = TRUE
		) nearby
		WHERE distance_km <= $3
		ORDER BY distance_km ASC
		LIMIT $4
	`, haversineSQL)

	rows, err := s.db.QueryContext(ctx, query, user.Lat, user.Lng, radiusKm, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("directory: nearest branches query: %w", err)
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		var scheduleJSON []byte
		var sqlDistance float64
		if err := rows.Scan(
			&b.ID, &b.Name, &b.City, &b.Area, &b.Address, &b.Phone,
			&b.Location.Lat, &b.Location.Lng, &scheduleJSON, &sqlDistance,
		); err != nil {
			return nil, fmt.Errorf("directory: scan branch: %w", err)
		}
		if len(scheduleJSON) > 0 {
			if err := json.Unmarshal(scheduleJSON, &b.Schedule); err != nil {
				return nil, fmt.Errorf("directory: decode schedule for %s: %w", b.ID, err)
			}
		}
		b.IsActive = true

		// Recompute the distance in Go as the display value; the SQL
		// expression only bounds and orders candidate selection.
		b.DistanceKm = geo.RoundKm(geo.DistanceKm(user, b.Location))
		b.DistanceDisplay = geo.FormatDistance(b.DistanceKm)

		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: nearest branches rows: %w", err)
	}

	span.SetAttributes(attribute.Int("directory.branches_found", len(branches)))
	return branches, nil
}

// DoctorsBySpecialty returns active doctors whose specialty contains the
// given term (case-insensitive) and who practice at one of the branches.
// Ordering is stable by doctor ID.
func (s *Store) DoctorsBySpecialty(ctx context.Context, specialty string, branchIDs []string) ([]Doctor, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("directory: store not initialized")
	}
	if len(branchIDs) == 0 {
		return nil, nil
	}
	ctx, span := s.tracer.Start(ctx, "directory.doctors_by_specialty")
	defer span.End()
	span.SetAttributes(attribute.String("directory.specialty", specialty))

	placeholders := make([]string, len(branchIDs))
	args := []any{specialty}
	for i, id := range branchIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT d.doctor_id, d.name, d.qualification, d.specialty,
		       d.experience_years, d.languages, db.branch_id
		FROM doctors d
		JOIN doctor_branches db ON db.doctor_id = d.doctor_id
		WHERE d.is_active = TRUE
		  AND d.specialty ILIKE '%%' || $1 || '%%'
		  AND db.branch_id IN (%s)
		ORDER BY d.doctor_id, db.branch_id
	`, strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("directory: doctors query: %w", err)
	}
	defer rows.Close()

	var doctors []Doctor
	index := map[string]int{}
	for rows.Next() {
		var d Doctor
		var languagesJSON []byte
		var branchID string
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Qualification, &d.Specialty,
			&d.ExperienceYears, &languagesJSON, &branchID,
		); err != nil {
			return nil, fmt.Errorf("directory: scan doctor: %w", err)
		}

		if i, ok := index[d.ID]; ok {
			doctors[i].Branches = append(doctors[i].Branches, Affiliation{BranchID: branchID})
			continue
		}
		if len(languagesJSON) > 0 {
			if err := json.Unmarshal(languagesJSON, &d.Languages); err != nil {
				return nil, fmt.Errorf("directory: decode languages for %s: %w", d.ID, err)
			}
		}
		d.Branches = []Affiliation{{BranchID: branchID}}
		index[d.ID] = len(doctors)
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: doctors rows: %w", err)
	}

	span.SetAttributes(attribute.Int("directory.doctors_found", len(doctors)))
	return doctors, nil
}

// SpecialtyForSymptoms looks up a specialty for any of the normalized symptom
// tokens. Returns sql-style "" with nil error when nothing matches.
func (s *Store) SpecialtyForSymptoms(ctx context.Context, symptoms []string) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("directory: store not initialized")
	}
	if len(symptoms) == 0 {
		return "", nil
	}
	ctx, span := s.tracer.Start(ctx, "directory.specialty_for_symptoms")
	defer span.End()

	placeholders := make([]string, len(symptoms))
	args := make([]any, len(symptoms))
	for i, sym := range symptoms {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = strings.ToLower(strings.TrimSpace(sym))
	}

	query := fmt.Sprintf(`
		SELECT specialty FROM symptom_specialties
		WHERE symptom IN (%s)
		ORDER BY symptom
		LIMIT 1
	`, strings.Join(placeholders, ","))

	var specialty string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&specialty)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("directory: specialty lookup: %w", err)
	}
	return specialty, nil
}

// Ping verifies database connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("directory: store not initialized")
	}
	return s.db.PingContext(ctx)
}
