package triage

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saylanihealth/sehat-ai/internal/directory"
	"github.com/saylanihealth/sehat-ai/internal/geo"
	"github.com/saylanihealth/sehat-ai/internal/observability/metrics"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

// DefaultSpecialty is recommended when no symptom maps to a specific one.
const DefaultSpecialty = "General Medicine"

// Directory is the subset of the doctor directory the matcher needs.
type Directory interface {
	NearestBranches(ctx context.Context, user geo.Point, limit int, radiusKm float64) ([]directory.Branch, error)
	DoctorsBySpecialty(ctx context.Context, specialty string, branchIDs []string) ([]directory.Doctor, error)
	SpecialtyForSymptoms(ctx context.Context, symptoms []string) (string, error)
}

// MatchResult holds the ranked recommendation for one user location.
type MatchResult struct {
	Specialty string
	Branches  []directory.Branch
	Doctors   []directory.Doctor
}

// Matcher recommends doctors at the branches nearest to the user.
type Matcher struct {
	dir            Directory
	logger         *logging.Logger
	tracer         trace.Tracer
	metrics        *metrics.TriageMetrics
	maxBranches    int
	searchRadiusKm float64
}

func NewMatcher(dir Directory, logger *logging.Logger, m *metrics.TriageMetrics, maxBranches int, searchRadiusKm float64) *Matcher {
	if logger == nil {
		logger = logging.Default()
	}
	if maxBranches <= 0 {
		maxBranches = 3
	}
	if searchRadiusKm <= 0 {
		searchRadiusKm = 50
	}
	return &Matcher{
		dir:            dir,
		logger:         logger,
		tracer:         otel.Tracer("sehat.internal.triage"),
		metrics:        m,
		maxBranches:    maxBranches,
		searchRadiusKm: searchRadiusKm,
	}
}

// Match finds doctors for the complaint near the given location. It never
// fails the conversation: directory errors are logged and an empty result is
// returned so the caller can fall back to a generic reply.
func (m *Matcher) Match(ctx context.Context, complaint string, symptoms []string, loc geo.Point) MatchResult {
	ctx, span := m.tracer.Start(ctx, "matcher.Match")
	defer span.End()

	start := time.Now()
	defer func() {
		m.metrics.ObserveMatchLatency(time.Since(start).Seconds())
	}()

	specialty := m.resolveSpecialty(ctx, complaint, symptoms)
	span.SetAttributes(attribute.String("triage.specialty", specialty))

	branches, err := m.dir.NearestBranches(ctx, loc, m.maxBranches, m.searchRadiusKm)
	if err != nil {
		span.RecordError(err)
		m.logger.Error("nearest branch lookup failed", "error", err)
		return MatchResult{Specialty: specialty}
	}
	if len(branches) == 0 {
		return MatchResult{Specialty: specialty}
	}

	branchIDs := make([]string, len(branches))
	byID := make(map[string]*directory.Branch, len(branches))
	for i := range branches {
		branchIDs[i] = branches[i].ID
		byID[branches[i].ID] = &branches[i]
	}

	doctors, err := m.dir.DoctorsBySpecialty(ctx, specialty, branchIDs)
	if err != nil {
		span.RecordError(err)
		m.logger.Error("doctor lookup failed", "error", err, "specialty", specialty)
		return MatchResult{Specialty: specialty, Branches: branches}
	}

	ranked := annotateAndRank(doctors, byID)
	span.SetAttributes(attribute.Int("triage.doctors", len(ranked)))
	return MatchResult{Specialty: specialty, Branches: branches, Doctors: ranked}
}

func (m *Matcher) resolveSpecialty(ctx context.Context, complaint string, symptoms []string) string {
	terms := make([]string, 0, len(symptoms)+1)
	if complaint != "" {
		terms = append(terms, complaint)
	}
	terms = append(terms, symptoms...)
	if len(terms) == 0 {
		return DefaultSpecialty
	}

	specialty, err := m.dir.SpecialtyForSymptoms(ctx, terms)
	if err != nil {
		m.logger.Warn("specialty lookup failed", "error", err)
		return DefaultSpecialty
	}
	if specialty == "" {
		return DefaultSpecialty
	}
	return specialty
}

// annotateAndRank keeps only affiliations at candidate branches, attaches
// branch details and distance to each, and orders doctors by the distance of
// their closest branch. A doctor with no candidate affiliation keeps an empty
// affiliation list and sorts last (MinBranchDistanceKm returns +Inf).
func annotateAndRank(doctors []directory.Doctor, byID map[string]*directory.Branch) []directory.Doctor {
	ranked := make([]directory.Doctor, 0, len(doctors))
	for _, doc := range doctors {
		kept := make([]directory.Affiliation, 0, len(doc.Branches))
		for _, aff := range doc.Branches {
			branch, ok := byID[aff.BranchID]
			if !ok {
				continue
			}
			aff.Branch = branch
			aff.DistanceKm = branch.DistanceKm
			kept = append(kept, aff)
		}
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].DistanceKm < kept[j].DistanceKm
		})
		doc.Branches = kept
		ranked = append(ranked, doc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MinBranchDistanceKm() < ranked[j].MinBranchDistanceKm()
	})
	return ranked
}
