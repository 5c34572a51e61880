package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. no_show has no dedicated transition endpoint; it
// is reachable only through a generic update.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// ValidStatus reports whether status is a recognized appointment status.
func ValidStatus(status string) bool { return validStatuses[status] }

// SlotDuration is the fixed length of every appointment. It is not
// stored; the end time is always the start plus this.
const SlotDuration = 30 * time.Minute

// Appointment maps to the appointments table. DateTime is the slot
// start; the vet is a user carrying the veterinarian role.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	VetID     uuid.UUID `db:"vet_id" json:"vet_id"`
	DateTime  time.Time `db:"date_time" json:"date_time"`
	Reason    string    `db:"reason" json:"reason"`
	Notes     string    `db:"notes" json:"notes"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// End returns the moment the appointment's slot finishes.
func (a *Appointment) End() time.Time {
	return a.DateTime.Add(SlotDuration)
}

// SlotStatus is one grid entry of a vet's day, as served by the
// available-slots endpoint.
type SlotStatus struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
