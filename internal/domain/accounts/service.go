package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/pkg/clinicerr"
)

// Service implements account management and the auth flows.
type Service struct {
	users      UserRepository
	tokens     RefreshTokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(users UserRepository, tokens RefreshTokenRepository, secret []byte, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// RegisterInput is the open-registration payload.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"`
}

// Register creates a user and signs them in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, *TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, nil, clinicerr.Validation("email", "email is required")
	}
	if len(in.Password) < 8 {
		return nil, nil, clinicerr.Validation("password", "password must be at least 8 characters")
	}
	if in.Password != in.PasswordConfirm {
		return nil, nil, clinicerr.Validation("password_confirm", "passwords do not match")
	}
	role := in.Role
	if role == "" {
		role = RoleReceptionist
	}
	if !ValidRole(role) {
		return nil, nil, clinicerr.Validation("role", "invalid role: "+role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}
	u := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, err
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Login verifies credentials and signs the user in. Users carrying a role
// outside the clinic set cannot log in.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if clinicerr.IsKind(err, clinicerr.KindNotFound) {
			return nil, nil, clinicerr.Validation("email", "invalid credentials")
		}
		return nil, nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, nil, clinicerr.Validation("email", "invalid credentials")
	}
	if !ValidRole(u.Role) {
		return nil, nil, clinicerr.Authorization("account role is not permitted to sign in")
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, rawRefreshToken string) error {
	return s.tokens.DeleteByHash(ctx, auth.HashRefreshToken(rawRefreshToken))
}

// Refresh exchanges a live refresh token for a fresh access token.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (*TokenPair, error) {
	rt, err := s.tokens.GetByHash(ctx, auth.HashRefreshToken(rawRefreshToken))
	if err != nil {
		if clinicerr.IsKind(err, clinicerr.KindNotFound) {
			return nil, clinicerr.Validation("refresh_token", "invalid refresh token")
		}
		return nil, err
	}
	if rt.Expired(s.now()) {
		_ = s.tokens.DeleteByHash(ctx, rt.TokenHash)
		return nil, clinicerr.Validation("refresh_token", "refresh token expired")
	}
	u, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	access, err := auth.NewAccessToken(u.ID.String(), u.Role, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access}, nil
}

func (s *Service) issueTokens(ctx context.Context, u *User) (*TokenPair, error) {
	access, err := auth.NewAccessToken(u.ID.String(), u.Role, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	rt := &RefreshToken{
		UserID:    u.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, rt); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: raw}, nil
}

// -- Administrator user management --

// CreateUserInput is the admin user-creation payload.
type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, clinicerr.Validation("email", "email is required")
	}
	if len(in.Password) < 8 {
		return nil, clinicerr.Validation("password", "password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = RoleReceptionist
	}
	if !ValidRole(role) {
		return nil, clinicerr.Validation("role", "invalid role: "+role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

// UpdateUserInput carries the mutable user fields. Nil means unchanged.
type UpdateUserInput struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" {
			return nil, clinicerr.Validation("email", "email is required")
		}
		u.Email = email
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, clinicerr.Validation("password", "password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		if !ValidRole(*in.Role) {
			return nil, clinicerr.Validation("role", "invalid role: "+*in.Role)
		}
		u.Role = *in.Role
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	return s.tokens.DeleteByUser(ctx, id)
}
