package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/accounts"
)

// Viewer is the authenticated principal a query is scoped for.
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

// ApplyScope tightens a filter to what the viewer may see. Administrators
// see everything, veterinarians their own schedule, receptionists nothing
// in the past, clients only their own animals' appointments. Anyone else
// sees an empty set.
func ApplyScope(f Filter, v Viewer, now time.Time) Filter {
	switch v.Role {
	case accounts.RoleAdministrator:
		return f
	case accounts.RoleVeterinarian:
		if f.VetID != nil && *f.VetID != v.UserID {
			f.None = true
			return f
		}
		id := v.UserID
		f.VetID = &id
		return f
	case accounts.RoleReceptionist:
		if f.From == nil || f.From.Before(now) {
			from := now
			f.From = &from
		}
		return f
	case accounts.RoleClient:
		id := v.UserID
		f.OwnerUserID = &id
		return f
	default:
		f.None = true
		return f
	}
}
