package accounts

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clinic roles. Every authenticated caller carries exactly one. Clients
// are pet owners with a login; their owner record links back via user_id.
const (
	RoleAdministrator = "administrator"
	RoleVeterinarian  = "veterinarian"
	RoleReceptionist  = "receptionist"
	RoleClient        = "client"
)

var validRoles = map[string]bool{
	RoleAdministrator: true,
	RoleVeterinarian:  true,
	RoleReceptionist:  true,
	RoleClient:        true,
}

// ValidRole reports whether role is one of the clinic roles.
func ValidRole(role string) bool { return validRoles[role] }

// RoleInfo is the value/label pair served by the roles endpoint.
type RoleInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Roles returns the fixed role list in display order.
func Roles() []RoleInfo {
	return []RoleInfo{
		{Value: RoleAdministrator, Label: "Administrator"},
		{Value: RoleVeterinarian, Label: "Veterinarian"},
		{Value: RoleReceptionist, Label: "Receptionist"},
		{Value: RoleClient, Label: "Client"},
	}
}

// User maps to the users table. The email doubles as the login name.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name, trimming when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MarshalJSON adds the derived full_name field to the serialized user.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		FullName string `json:"full_name"`
	}{alias(u), u.FullName()})
}

// RefreshToken maps to the refresh_tokens table. Only the sha256 hash of
// the opaque token is stored.
type RefreshToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the token is past its expiry.
func (rt *RefreshToken) Expired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// TokenPair is what login, register, and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
