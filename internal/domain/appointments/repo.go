package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows an appointment search. Ad-hoc request filters are set
// first; ApplyScope then tightens the filter to what the caller may see.
type Filter struct {
	ID          *uuid.UUID
	Date        *time.Time // calendar day, time component ignored
	Status      string
	VetID       *uuid.UUID
	PatientID   *uuid.UUID
	OwnerUserID *uuid.UUID // appointments of patients whose owner is linked to this user
	From        *time.Time // inclusive lower bound on date_time
	None        bool       // matches nothing
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)

	// FindOverlapping returns the vet's non-cancelled appointments whose
	// start falls strictly inside (start-30min, start+30min). An
	// appointment exactly 30 minutes away is not returned. excludeID
	// drops the record itself on update; pass uuid.Nil on create.
	FindOverlapping(ctx context.Context, vetID uuid.UUID, start time.Time, excludeID uuid.UUID) ([]*Appointment, error)

	// FindByVetAndDay returns the vet's non-cancelled appointments on
	// the given calendar day, ordered by start time.
	FindByVetAndDay(ctx context.Context, vetID uuid.UUID, day time.Time) ([]*Appointment, error)

	CountOnDay(ctx context.Context, day time.Time) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
