package patients

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/owners"
)

// Species accepted by the clinic.
const (
	SpeciesDog    = "dog"
	SpeciesCat    = "cat"
	SpeciesRabbit = "rabbit"
)

var validSpecies = map[string]bool{
	SpeciesDog:    true,
	SpeciesCat:    true,
	SpeciesRabbit: true,
}

// ValidSpecies reports whether species is one the clinic treats.
func ValidSpecies(species string) bool { return validSpecies[species] }

const (
	SexMale   = "male"
	SexFemale = "female"
)

var validSexes = map[string]bool{SexMale: true, SexFemale: true}

// ValidSex reports whether sex is a recognized value.
func ValidSex(sex string) bool { return validSexes[sex] }

// Patient maps to the patients table: an animal under the clinic's care.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Species   string    `db:"species" json:"species"`
	Breed     string    `db:"breed" json:"breed"`
	BirthDate time.Time `db:"birth_date" json:"birth_date"`
	Weight    float64   `db:"weight" json:"weight"`
	Sex       string    `db:"sex" json:"sex"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Detail is a patient together with its owner, served on retrieval.
type Detail struct {
	Patient
	Owner *owners.Owner `json:"owner"`
}

// Summary is a patient with its owner's display name, used by the
// recent-patients listing.
type Summary struct {
	Patient
	OwnerName string `db:"owner_name" json:"owner_name"`
}

// SpeciesCount is one species' share of the patient population.
type SpeciesCount struct {
	Species    string  `json:"species"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Stats is the dashboard aggregate.
type Stats struct {
	Owners              int            `json:"owners"`
	Patients            int            `json:"patients"`
	AppointmentsToday   int            `json:"appointments_today"`
	CompletedTreatments int            `json:"completed_treatments"`
	SpeciesDistribution []SpeciesCount `json:"species_distribution"`
}
