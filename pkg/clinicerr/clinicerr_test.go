package clinicerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("date_time", "in the past"), http.StatusBadRequest},
		{"conflict", Conflict("date_time", "already booked"), http.StatusConflict},
		{"not found", NotFound("appointment"), http.StatusNotFound},
		{"invalid state", InvalidState("already cancelled"), http.StatusBadRequest},
		{"authorization", Authorization("veterinarian role required"), http.StatusForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("save: %w", NotFound("owner")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("update: %w", Conflict("date_time", "overlap"))
	if !IsKind(err, KindConflict) {
		t.Error("expected wrapped conflict to match KindConflict")
	}
	if IsKind(err, KindNotFound) {
		t.Error("did not expect conflict to match KindNotFound")
	}
	if IsKind(errors.New("plain"), KindConflict) {
		t.Error("plain error must not match any kind")
	}
}

func TestError_Message(t *testing.T) {
	e := Validation("vet", "not a veterinarian")
	want := "validation: vet: not a veterinarian"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}

	e2 := InvalidState("already completed")
	if e2.Error() != "invalid_state: already completed" {
		t.Errorf("unexpected message: %q", e2.Error())
	}
}

func TestHTTP_FieldDetail(t *testing.T) {
	err := HTTP(Validation("date_time", "cannot be in the past"))
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
	body, ok := he.Message.(map[string]string)
	if !ok {
		t.Fatalf("expected map body, got %T", he.Message)
	}
	if body["date_time"] != "cannot be in the past" {
		t.Errorf("expected field-level detail, got %v", body)
	}
}

func TestHTTP_UnknownError(t *testing.T) {
	err := HTTP(errors.New("database exploded"))
	he := err.(*echo.HTTPError)
	if he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", he.Code)
	}
	if he.Message == "database exploded" {
		t.Error("internal error detail must not leak to the caller")
	}
}
