package owners

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/pkg/clinicerr"
)

// RecentLimit is how many owners the dashboard's recent listing shows.
const RecentLimit = 4

type Service struct {
	owners Repository
}

func NewService(owners Repository) *Service {
	return &Service{owners: owners}
}

// Input carries the owner fields accepted on create and update. UserID
// optionally links the owner to a login account.
type Input struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	UserID    string `json:"user_id"`
}

func (in *Input) userID() (*uuid.UUID, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(in.UserID)
	if err != nil {
		return nil, clinicerr.Validation("user_id", "invalid user id")
	}
	return &id, nil
}

func (in *Input) validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return clinicerr.Validation("first_name", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return clinicerr.Validation("last_name", "last name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return clinicerr.Validation("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return clinicerr.Validation("email", "invalid email address")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Owner, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	userID, err := in.userID()
	if err != nil {
		return nil, err
	}
	o := &Owner{
		UserID:    userID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
	}
	if err := s.owners.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Owner, error) {
	return s.owners.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Owner, int, error) {
	return s.owners.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Owner, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	userID, err := in.userID()
	if err != nil {
		return nil, err
	}
	o, err := s.owners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		o.UserID = userID
	}
	o.FirstName = strings.TrimSpace(in.FirstName)
	o.LastName = strings.TrimSpace(in.LastName)
	o.Email = strings.TrimSpace(strings.ToLower(in.Email))
	o.Phone = strings.TrimSpace(in.Phone)
	o.Address = strings.TrimSpace(in.Address)
	if err := s.owners.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.owners.Delete(ctx, id)
}

// Recent returns the newest owners with their patient counts.
func (s *Service) Recent(ctx context.Context) ([]*OwnerSummary, error) {
	return s.owners.Recent(ctx, RecentLimit)
}

// EmailExists probes whether an owner with the email is already on file.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return false, clinicerr.Validation("email", "email query parameter is required")
	}
	return s.owners.EmailExists(ctx, email)
}
