package patients

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/owners"
	"github.com/vetclinic/vetclinic/pkg/clinicerr"
)

// RecentLimit is how many patients the dashboard's recent listing shows.
const RecentLimit = 4

// OwnerSource is the slice of the owner store the patient service needs.
type OwnerSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*owners.Owner, error)
	Count(ctx context.Context) (int, error)
}

// AppointmentCounter supplies the appointment-derived stats figures.
type AppointmentCounter interface {
	CountOnDay(ctx context.Context, day time.Time) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

type Service struct {
	patients     Repository
	owners       OwnerSource
	appointments AppointmentCounter
	now          func() time.Time
}

func NewService(patients Repository, owners OwnerSource, appointments AppointmentCounter) *Service {
	return &Service{patients: patients, owners: owners, appointments: appointments, now: time.Now}
}

// Input carries the patient fields accepted on create and update. The
// birth date uses the YYYY-MM-DD form.
type Input struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	BirthDate string  `json:"birth_date"`
	Weight    float64 `json:"weight"`
	Sex       string  `json:"sex"`
	OwnerID   string  `json:"owner_id"`
}

func (s *Service) validate(ctx context.Context, in Input) (*Patient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, clinicerr.Validation("name", "name is required")
	}
	if !ValidSpecies(in.Species) {
		return nil, clinicerr.Validation("species", "species must be dog, cat, or rabbit")
	}
	if !ValidSex(in.Sex) {
		return nil, clinicerr.Validation("sex", "sex must be male or female")
	}
	if in.Weight < 0 {
		return nil, clinicerr.Validation("weight", "weight cannot be negative")
	}

	var birthDate time.Time
	if in.BirthDate != "" {
		var err error
		birthDate, err = time.Parse("2006-01-02", in.BirthDate)
		if err != nil {
			return nil, clinicerr.Validation("birth_date", "birth date must be YYYY-MM-DD")
		}
		if birthDate.After(s.now()) {
			return nil, clinicerr.Validation("birth_date", "birth date cannot be in the future")
		}
	}

	ownerID, err := uuid.Parse(in.OwnerID)
	if err != nil {
		return nil, clinicerr.Validation("owner_id", "invalid owner id")
	}
	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		if clinicerr.IsKind(err, clinicerr.KindNotFound) {
			return nil, clinicerr.Validation("owner_id", "owner does not exist")
		}
		return nil, err
	}

	return &Patient{
		Name:      strings.TrimSpace(in.Name),
		Species:   in.Species,
		Breed:     strings.TrimSpace(in.Breed),
		BirthDate: birthDate,
		Weight:    in.Weight,
		Sex:       in.Sex,
		OwnerID:   ownerID,
	}, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	p, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the patient together with its owner.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o, err := s.owners.GetByID(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}
	return &Detail{Patient: *p, Owner: o}, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Patient, error) {
	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.patients.ListByOwner(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Patient, error) {
	existing, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

// Recent returns the newest patients with their owners' names.
func (s *Service) Recent(ctx context.Context) ([]*Summary, error) {
	return s.patients.Recent(ctx, RecentLimit)
}

// GetStats assembles the dashboard aggregate. Appointment figures come
// from the appointment store rather than placeholders.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	ownerCount, err := s.owners.Count(ctx)
	if err != nil {
		return nil, err
	}
	patientCount, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.appointments.CountOnDay(ctx, s.now())
	if err != nil {
		return nil, err
	}
	completed, err := s.appointments.CountByStatus(ctx, "completed")
	if err != nil {
		return nil, err
	}
	bySpecies, err := s.patients.CountBySpecies(ctx)
	if err != nil {
		return nil, err
	}

	distribution := make([]SpeciesCount, 0, 3)
	for _, species := range []string{SpeciesDog, SpeciesCat, SpeciesRabbit} {
		count := bySpecies[species]
		var pct float64
		if patientCount > 0 {
			pct = math.Round(float64(count)/float64(patientCount)*1000) / 10
		}
		distribution = append(distribution, SpeciesCount{Species: species, Count: count, Percentage: pct})
	}

	return &Stats{
		Owners:              ownerCount,
		Patients:            patientCount,
		AppointmentsToday:   today,
		CompletedTreatments: completed,
		SpeciesDistribution: distribution,
	}, nil
}
