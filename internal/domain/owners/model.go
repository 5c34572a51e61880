package owners

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Owner maps to the owners table: the human client an animal belongs to.
// UserID links the owner to a login account when they have one.
type Owner struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Email     string     `db:"email" json:"email"`
	Phone     string     `db:"phone" json:"phone"`
	Address   string     `db:"address" json:"address"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name, trimming when either is empty.
func (o *Owner) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// MarshalJSON adds the derived full_name field to the serialized owner.
func (o Owner) MarshalJSON() ([]byte, error) {
	type alias Owner
	return json.Marshal(struct {
		alias
		FullName string `json:"full_name"`
	}{alias(o), o.FullName()})
}

// OwnerSummary is an owner with their patient count, used by the
// recent-owners listing.
type OwnerSummary struct {
	Owner
	PatientCount int `db:"patient_count" json:"patient_count"`
}

// MarshalJSON keeps the derived full_name on the embedded owner.
func (s OwnerSummary) MarshalJSON() ([]byte, error) {
	type alias Owner
	return json.Marshal(struct {
		alias
		FullName     string `json:"full_name"`
		PatientCount int    `json:"patient_count"`
	}{alias(s.Owner), s.FullName(), s.PatientCount})
}
