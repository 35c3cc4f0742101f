// Command seed loads a starter clinic directory: Karachi branches, doctors
// with branch affiliations, and the symptom-to-specialty table.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

type schedule struct {
	Day       string   `json:"day"`
	TimeSlots []string `json:"time_slots"`
}

type branch struct {
	name     string
	city     string
	area     string
	address  string
	phone    string
	lat, lng float64
	schedule []schedule
}

type doctor struct {
	name          string
	qualification string
	specialty     string
	experience    int
	languages     []string
	branchAreas   []string
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func allWeekdays(slots ...string) []schedule {
	out := make([]schedule, 0, len(weekdays))
	for _, d := range weekdays {
		out = append(out, schedule{Day: d, TimeSlots: slots})
	}
	return out
}

var branches = []branch{
	{
		name: "Saylani Welfare Bahadurabad", city: "Karachi", area: "Bahadurabad",
		address: "Alamgir Road, Bahadurabad, Karachi", phone: "021-34930051",
		lat: 24.8825, lng: 67.0703,
		schedule: allWeekdays("09:00-13:00", "17:00-21:00"),
	},
	{
		name: "Saylani Welfare Gulshan", city: "Karachi", area: "Gulshan-e-Iqbal",
		address: "Main University Road, Gulshan-e-Iqbal, Karachi", phone: "021-34022871",
		lat: 24.9207, lng: 67.0974,
		schedule: allWeekdays("09:00-14:00"),
	},
	{
		name: "Saylani Welfare Korangi", city: "Karachi", area: "Korangi",
		address: "Korangi Industrial Area, Karachi", phone: "021-35114492",
		lat: 24.8300, lng: 67.1300,
		schedule: allWeekdays("10:00-13:00", "18:00-21:00"),
	},
	{
		name: "Saylani Welfare North Nazimabad", city: "Karachi", area: "North Nazimabad",
		address: "Block H, North Nazimabad, Karachi", phone: "021-36631202",
		lat: 24.9556, lng: 67.0392,
		schedule: allWeekdays("09:00-13:00"),
	},
	{
		name: "Saylani Welfare Clifton", city: "Karachi", area: "Clifton",
		address: "Block 2, Clifton, Karachi", phone: "021-35835063",
		lat: 24.8138, lng: 67.0300,
		schedule: allWeekdays("17:00-21:00"),
	},
}

var doctors = []doctor{
	{"Dr. Ayesha Khan", "MBBS, FCPS (Medicine)", "General Medicine", 12, []string{"Urdu", "English"}, []string{"Bahadurabad", "Gulshan-e-Iqbal"}},
	{"Dr. Bilal Ahmed", "MBBS, FCPS (Cardiology)", "Cardiology", 15, []string{"Urdu", "English"}, []string{"Bahadurabad", "Clifton"}},
	{"Dr. Sana Tariq", "MBBS, MD", "General Medicine", 8, []string{"Urdu", "English", "Sindhi"}, []string{"Korangi", "Gulshan-e-Iqbal"}},
	{"Dr. Omar Siddiqui", "MBBS, FCPS (Neurology)", "Neurology", 10, []string{"Urdu", "English"}, []string{"North Nazimabad"}},
	{"Dr. Hina Raza", "MBBS, DCH", "Pediatrics", 9, []string{"Urdu"}, []string{"Korangi", "Clifton"}},
	{"Dr. Faisal Mehmood", "MBBS, FCPS (Pulmonology)", "Pulmonology", 11, []string{"Urdu", "English"}, []string{"Gulshan-e-Iqbal", "North Nazimabad"}},
	{"Dr. Nadia Aslam", "MBBS, FCPS (Gastroenterology)", "Gastroenterology", 7, []string{"Urdu", "English"}, []string{"Bahadurabad"}},
}

var symptomSpecialties = map[string]string{
	"chest pain":           "Cardiology",
	"palpitations":         "Cardiology",
	"breathing_difficulty": "Pulmonology",
	"shortness of breath":  "Pulmonology",
	"cough":                "Pulmonology",
	"headache":             "Neurology",
	"dizziness":            "Neurology",
	"stomach pain":         "Gastroenterology",
	"vomiting":             "Gastroenterology",
	"fever":                "General Medicine",
	"pain":                 "General Medicine",
	"general complaint":    "General Medicine",
}

func main() {
	_ = godotenv.Load()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	branchIDByArea := make(map[string]string, len(branches))
	for _, b := range branches {
		id := uuid.New().String()
		branchIDByArea[b.area] = id

		scheduleJSON, err := json.Marshal(b.schedule)
		if err != nil {
			log.Fatalf("marshal schedule: %v", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO branches (branch_id, branch_name, city, area, full_address, phone, lat, lng, schedule, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		`, id, b.name, b.city, b.area, b.address, b.phone, b.lat, b.lng, scheduleJSON); err != nil {
			log.Fatalf("insert branch %s: %v", b.name, err)
		}
	}

	for _, d := range doctors {
		id := uuid.New().String()
		languagesJSON, err := json.Marshal(d.languages)
		if err != nil {
			log.Fatalf("marshal languages: %v", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO doctors (doctor_id, name, qualification, specialty, experience_years, languages, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		`, id, d.name, d.qualification, d.specialty, d.experience, languagesJSON); err != nil {
			log.Fatalf("insert doctor %s: %v", d.name, err)
		}

		for _, area := range d.branchAreas {
			branchID, ok := branchIDByArea[area]
			if !ok {
				log.Fatalf("doctor %s references unknown branch area %q", d.name, area)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO doctor_branches (doctor_id, branch_id) VALUES ($1, $2)
			`, id, branchID); err != nil {
				log.Fatalf("insert affiliation for %s: %v", d.name, err)
			}
		}
	}

	for symptom, specialty := range symptomSpecialties {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO symptom_specialties (symptom, specialty) VALUES ($1, $2)
			ON CONFLICT (symptom) DO UPDATE SET specialty = EXCLUDED.specialty
		`, symptom, specialty); err != nil {
			log.Fatalf("insert symptom mapping %q: %v", symptom, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}

	log.Printf("seeded %d branches, %d doctors, %d symptom mappings", len(branches), len(doctors), len(symptomSpecialties))
}
