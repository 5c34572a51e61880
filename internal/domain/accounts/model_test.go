package accounts

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"both", "Ana", "Torres", "Ana Torres"},
		{"first only", "Ana", "", "Ana"},
		{"last only", "", "Torres", "Torres"},
		{"neither", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FirstName: tt.first, LastName: tt.last}
			if got := u.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserJSON(t *testing.T) {
	u := User{Email: "vet@clinic.com", PasswordHash: "bcrypt-hash", FirstName: "Ana", LastName: "Torres", Role: RoleVeterinarian}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "bcrypt-hash") || strings.Contains(s, "password") {
		t.Errorf("password hash must never serialize: %s", s)
	}
	if !strings.Contains(s, `"full_name":"Ana Torres"`) {
		t.Errorf("expected derived full_name in output: %s", s)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdministrator, RoleVeterinarian, RoleReceptionist, RoleClient} {
		if !ValidRole(role) {
			t.Errorf("expected %s to be valid", role)
		}
	}
	for _, role := range []string{"admin", "vet", ""} {
		if ValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestRoles(t *testing.T) {
	roles := Roles()
	if len(roles) != 4 {
		t.Fatalf("expected 4 roles, got %d", len(roles))
	}
	if roles[0].Value != RoleAdministrator {
		t.Errorf("expected administrator first, got %s", roles[0].Value)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	rt := &RefreshToken{ExpiresAt: time.Now().Add(time.Hour)}
	if rt.Expired(time.Now()) {
		t.Error("token with future expiry must not be expired")
	}
	if !rt.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("token past expiry must be expired")
	}
}
