package appointments

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/domain/accounts"
	"github.com/vetclinic/vetclinic/internal/domain/patients"
	"github.com/vetclinic/vetclinic/pkg/clinicerr"
)

type mockRepo struct {
	items      map[uuid.UUID]*Appointment
	ownerUsers map[uuid.UUID]uuid.UUID // patient id -> linked user id of its owner
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		items:      make(map[uuid.UUID]*Appointment),
		ownerUsers: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, clinicerr.NotFound("appointment")
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.items[a.ID]; !ok {
		return clinicerr.NotFound("appointment")
	}
	a.UpdatedAt = time.Now()
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return clinicerr.NotFound("appointment")
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) matches(f Filter, a *Appointment) bool {
	if f.ID != nil && a.ID != *f.ID {
		return false
	}
	if f.Date != nil {
		start, end := dayBounds(*f.Date)
		if a.DateTime.Before(start) || !a.DateTime.Before(end) {
			return false
		}
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.VetID != nil && a.VetID != *f.VetID {
		return false
	}
	if f.PatientID != nil && a.PatientID != *f.PatientID {
		return false
	}
	if f.OwnerUserID != nil && m.ownerUsers[a.PatientID] != *f.OwnerUserID {
		return false
	}
	if f.From != nil && a.DateTime.Before(*f.From) {
		return false
	}
	return true
}

func (m *mockRepo) Search(_ context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if f.None {
		return nil, 0, nil
	}
	var all []*Appointment
	for _, a := range m.items {
		if m.matches(f, a) {
			cp := *a
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DateTime.Before(all[j].DateTime) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockRepo) FindOverlapping(_ context.Context, vetID uuid.UUID, start time.Time, excludeID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	lo, hi := start.Add(-SlotDuration), start.Add(SlotDuration)
	for _, a := range m.items {
		if a.VetID != vetID || a.Status == StatusCancelled || a.ID == excludeID {
			continue
		}
		if a.DateTime.After(lo) && a.DateTime.Before(hi) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) FindByVetAndDay(_ context.Context, vetID uuid.UUID, day time.Time) ([]*Appointment, error) {
	start, end := dayBounds(day)
	var out []*Appointment
	for _, a := range m.items {
		if a.VetID != vetID || a.Status == StatusCancelled {
			continue
		}
		if !a.DateTime.Before(start) && a.DateTime.Before(end) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (m *mockRepo) CountOnDay(_ context.Context, day time.Time) (int, error) {
	start, end := dayBounds(day)
	n := 0
	for _, a := range m.items {
		if !a.DateTime.Before(start) && a.DateTime.Before(end) {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) CountByStatus(_ context.Context, status string) (int, error) {
	n := 0
	for _, a := range m.items {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

type mockPatientSource struct {
	items map[uuid.UUID]*patients.Patient
}

func (m *mockPatientSource) GetByID(_ context.Context, id uuid.UUID) (*patients.Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, clinicerr.NotFound("patient")
	}
	return p, nil
}

type mockUserSource struct {
	items map[uuid.UUID]*accounts.User
}

func (m *mockUserSource) GetByID(_ context.Context, id uuid.UUID) (*accounts.User, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, clinicerr.NotFound("user")
	}
	return u, nil
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	vetID     uuid.UUID
	patientID uuid.UUID
	users     *mockUserSource
	now       time.Time
}

func newFixture() *fixture {
	repo := newMockRepo()
	users := &mockUserSource{items: make(map[uuid.UUID]*accounts.User)}
	pats := &mockPatientSource{items: make(map[uuid.UUID]*patients.Patient)}

	vetID := uuid.New()
	users.items[vetID] = &accounts.User{ID: vetID, Role: accounts.RoleVeterinarian}

	patientID := uuid.New()
	pats.items[patientID] = &patients.Patient{ID: patientID, Name: "Rex"}

	svc := NewService(repo, pats, users)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, repo: repo, vetID: vetID, patientID: patientID, users: users, now: now}
}

func (f *fixture) input(dateTime string) Input {
	return Input{
		PatientID: f.patientID.String(),
		VetID:     f.vetID.String(),
		DateTime:  dateTime,
		Reason:    "checkup",
	}
}

func (f *fixture) adminViewer() Viewer {
	return Viewer{UserID: uuid.New(), Role: accounts.RoleAdministrator}
}

func TestCreate_RoundTrip(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusScheduled {
		t.Errorf("expected status scheduled, got %s", created.Status)
	}

	got, err := f.svc.Get(context.Background(), created.ID, f.adminViewer())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("expected status scheduled after round trip, got %s", got.Status)
	}
	if got.CreatedAt.After(got.UpdatedAt) {
		t.Errorf("created_at %v is after updated_at %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCreate_ConflictWindow(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z")); err != nil {
		t.Fatalf("seed create: %v", err)
	}

	tests := []struct {
		dateTime string
		conflict bool
	}{
		{"2024-06-01T10:00:00Z", true},
		{"2024-06-01T10:15:00Z", true},
		{"2024-06-01T09:45:00Z", true},
		{"2024-06-01T10:29:00Z", true},
		{"2024-06-01T10:30:00Z", false},
		{"2024-06-01T09:30:00Z", false},
	}
	for _, tt := range tests {
		_, err := f.svc.Create(context.Background(), f.input(tt.dateTime))
		if tt.conflict && !clinicerr.IsKind(err, clinicerr.KindConflict) {
			t.Errorf("%s: expected conflict, got %v", tt.dateTime, err)
		}
		if !tt.conflict && err != nil {
			t.Errorf("%s: expected success, got %v", tt.dateTime, err)
		}
	}
}

func TestCreate_CancelledDoesNotConflict(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("seed create: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), a.ID, f.adminViewer()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z")); err != nil {
		t.Errorf("expected cancelled slot to be bookable again, got %v", err)
	}
}

func TestCreate_PastStart(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.input("2024-06-01T07:00:00Z"))
	if !clinicerr.IsKind(err, clinicerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.items) != 0 {
		t.Errorf("expected nothing persisted, found %d records", len(f.repo.items))
	}
}

func TestCreate_NonVetAssignee(t *testing.T) {
	f := newFixture()
	receptionID := uuid.New()
	f.users.items[receptionID] = &accounts.User{ID: receptionID, Role: accounts.RoleReceptionist}

	in := f.input("2024-06-01T10:00:00Z")
	in.VetID = receptionID.String()
	_, err := f.svc.Create(context.Background(), in)
	if !clinicerr.IsKind(err, clinicerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.items) != 0 {
		t.Errorf("expected nothing persisted, found %d records", len(f.repo.items))
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	f := newFixture()
	in := f.input("2024-06-01T10:00:00Z")
	in.PatientID = uuid.New().String()
	_, err := f.svc.Create(context.Background(), in)
	if !clinicerr.IsKind(err, clinicerr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancel_Twice(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), a.ID, f.adminViewer()); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	_, err = f.svc.Cancel(context.Background(), a.ID, f.adminViewer())
	if !clinicerr.IsKind(err, clinicerr.KindInvalidState) {
		t.Fatalf("expected invalid state on second cancel, got %v", err)
	}
	got, err := f.svc.Get(context.Background(), a.ID, f.adminViewer())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("status changed by failed cancel: %s", got.Status)
	}
}

func TestComplete_Twice(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Complete(context.Background(), a.ID, f.adminViewer()); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	_, err = f.svc.Complete(context.Background(), a.ID, f.adminViewer())
	if !clinicerr.IsKind(err, clinicerr.KindInvalidState) {
		t.Fatalf("expected invalid state on second complete, got %v", err)
	}
}

func TestUpdate_RevalidatesOnlyWhenMovedOrReassigned(t *testing.T) {
	f := newFixture()
	first, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := f.svc.Create(context.Background(), f.input("2024-06-01T11:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving into the first appointment's window conflicts.
	_, err = f.svc.Update(context.Background(), second.ID, Input{DateTime: "2024-06-01T10:15:00Z"}, f.adminViewer())
	if !clinicerr.IsKind(err, clinicerr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// A notes-only edit never re-runs the scheduling gate.
	got, err := f.svc.Update(context.Background(), second.ID, Input{Notes: "bring vaccination record"}, f.adminViewer())
	if err != nil {
		t.Fatalf("notes update: %v", err)
	}
	if got.Notes != "bring vaccination record" {
		t.Errorf("notes not applied: %q", got.Notes)
	}

	// Re-submitting the unchanged time does not conflict with itself.
	if _, err := f.svc.Update(context.Background(), first.ID, Input{DateTime: "2024-06-01T10:00:00Z"}, f.adminViewer()); err != nil {
		t.Errorf("unchanged time update: %v", err)
	}
}

func TestUpdate_NoShowViaGenericUpdate(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.svc.Update(context.Background(), a.ID, Input{Status: StatusNoShow}, f.adminViewer())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusNoShow {
		t.Errorf("expected no_show, got %s", got.Status)
	}

	_, err = f.svc.Update(context.Background(), a.ID, Input{Status: "missed"}, f.adminViewer())
	if !clinicerr.IsKind(err, clinicerr.KindValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestList_ReceptionistNeverSeesPast(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Push the clock forward so the booking is now in the past, then add
	// a future one.
	f.svc.now = func() time.Time { return f.now.Add(72 * time.Hour) }
	if _, err := f.svc.Create(context.Background(), f.input("2024-06-05T10:00:00Z")); err != nil {
		t.Fatalf("create: %v", err)
	}

	viewer := Viewer{UserID: uuid.New(), Role: accounts.RoleReceptionist}
	items, total, err := f.svc.List(context.Background(), Filter{}, viewer, 50, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected exactly the future appointment, got %d", total)
	}
	for _, a := range items {
		if a.DateTime.Before(f.svc.now()) {
			t.Errorf("receptionist saw past appointment at %v", a.DateTime)
		}
	}
}

func TestList_ClientSeesOwnAnimalsOnly(t *testing.T) {
	f := newFixture()
	clientUser := uuid.New()
	f.repo.ownerUsers[f.patientID] = clientUser

	mine, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	other := uuid.New()
	if err := f.repo.Create(context.Background(), &Appointment{
		PatientID: other, VetID: f.vetID,
		DateTime: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC), Status: StatusScheduled,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	viewer := Viewer{UserID: clientUser, Role: accounts.RoleClient}
	items, total, err := f.svc.List(context.Background(), Filter{}, viewer, 50, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != mine.ID {
		t.Fatalf("expected only the client's own appointment, got %d items", len(items))
	}
}

func TestGet_OutOfScopeReadsAsNotFound(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	otherVet := Viewer{UserID: uuid.New(), Role: accounts.RoleVeterinarian}
	_, err = f.svc.Get(context.Background(), a.ID, otherVet)
	if !clinicerr.IsKind(err, clinicerr.KindNotFound) {
		t.Fatalf("expected not found for another vet, got %v", err)
	}
}

func TestAvailableSlots(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:00:00Z")); err != nil {
		t.Fatalf("create: %v", err)
	}

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	slots, err := f.svc.AvailableSlots(context.Background(), f.vetID, day)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 14 {
		t.Fatalf("expected 14 slots, got %d", len(slots))
	}

	byTime := make(map[string]bool, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}
	if byTime["10:00"] {
		t.Errorf("10:00 should be unavailable")
	}
	// Exact time-of-day match only: the neighbouring slots stay open even
	// though booking them would be rejected by the conflict check.
	if !byTime["10:30"] {
		t.Errorf("10:30 should be available")
	}
	if !byTime["09:30"] {
		t.Errorf("09:30 should be available")
	}
}

func TestAvailableSlots_CancelledFreesTheSlot(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.input("2024-06-01T09:00:00Z"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), a.ID, f.adminViewer()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	slots, err := f.svc.AvailableSlots(context.Background(), f.vetID, day)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	for _, s := range slots {
		if !s.Available {
			t.Errorf("slot %s should be available after cancellation", s.Time)
		}
	}
}

func TestAvailableSlots_OffGridBookingBlocksNothing(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), f.input("2024-06-01T10:15:00Z")); err != nil {
		t.Fatalf("create: %v", err)
	}

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	slots, err := f.svc.AvailableSlots(context.Background(), f.vetID, day)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	for _, s := range slots {
		if !s.Available {
			t.Errorf("off-grid booking marked grid slot %s unavailable", s.Time)
		}
	}
}
