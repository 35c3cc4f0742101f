// Package directory exposes the read-only clinic reference data: branches,
// doctors, and the symptom-to-specialty taxonomy. The triage core queries it
// but does not own it.
package directory

import (
	"math"
	"strings"
	"time"

	"github.com/saylanihealth/sehat-ai/internal/geo"
)

// ScheduleEntry is one day of a branch's weekly schedule.
type ScheduleEntry struct {
	Day       string   `json:"day"`
	TimeSlots []string `json:"time_slots"`
}

// Branch is a physical clinic location.
type Branch struct {
	ID       string          `json:"branch_id"`
	Name     string          `json:"branch_name"`
	City     string          `json:"city"`
	Area     string          `json:"area"`
	Address  string          `json:"full_address"`
	Phone    string          `json:"phone"`
	Location geo.Point       `json:"location"`
	Schedule []ScheduleEntry `json:"schedule"`
	IsActive bool            `json:"is_active"`

	// DistanceKm and DistanceDisplay are filled in at query time relative
	// to the caller's location; they are not stored.
	DistanceKm      float64 `json:"distance_km,omitempty"`
	DistanceDisplay string  `json:"distance_display,omitempty"`
}

// SlotsForDay returns the time slots for the weekday of t, or nil when the
// branch has no schedule entry for that day.
func (b *Branch) SlotsForDay(t time.Time) []string {
	day := t.Format("Monday")
	for _, entry := range b.Schedule {
		if strings.EqualFold(entry.Day, day) {
			return entry.TimeSlots
		}
	}
	return nil
}

// Affiliation links a doctor to a branch. Distance and the full branch record
// are attached by the matcher for branches that survived candidate selection.
type Affiliation struct {
	BranchID   string  `json:"branch_id"`
	DistanceKm float64 `json:"branch_distance,omitempty"`
	Branch     *Branch `json:"branch_full_info,omitempty"`
}

// Doctor is a clinician with one or more branch affiliations.
type Doctor struct {
	ID              string        `json:"doctor_id"`
	Name            string        `json:"name"`
	Qualification   string        `json:"qualification"`
	Specialty       string        `json:"specialty"`
	ExperienceYears int           `json:"experience_years"`
	Languages       []string      `json:"languages"`
	Branches        []Affiliation `json:"branches"`
}

// MinBranchDistanceKm is the distance of the doctor's closest annotated
// affiliation. Doctors with no annotated affiliations report +Inf so they
// sort last.
func (d *Doctor) MinBranchDistanceKm() float64 {
	min := math.Inf(1)
	for _, aff := range d.Branches {
		if aff.Branch == nil {
			continue
		}
		if aff.DistanceKm < min {
			min = aff.DistanceKm
		}
	}
	return min
}
