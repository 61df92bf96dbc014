package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) SetAvailable(_ context.Context, id uuid.UUID, available bool) error {
	d, ok := m.doctors[id]
	if !ok {
		return ErrNotFound
	}
	d.Available = available
	return nil
}

func (m *mockRepo) UpdateSlots(_ context.Context, id uuid.UUID, slots map[string][]string, expectedVersion int) error {
	d, ok := m.doctors[id]
	if !ok {
		return ErrNotFound
	}
	if d.SlotsVersion != expectedVersion {
		return ErrVersionConflict
	}
	d.SlotsBooked = slots
	d.SlotsVersion++
	return nil
}

func (m *mockRepo) List(_ context.Context, onlyAvailable bool, speciality string, limit, offset int) ([]*Doctor, int, error) {
	var items []*Doctor
	for _, d := range m.doctors {
		if onlyAvailable && !d.Available {
			continue
		}
		if speciality != "" && d.Speciality != speciality {
			continue
		}
		cp := *d
		items = append(items, &cp)
	}
	return items, len(items), nil
}

func validAddInput() AddInput {
	return AddInput{
		Name:       "Dr. Gregory House",
		Email:      "house@clinic.test",
		Password:   "vicodin-and-sarcasm",
		Speciality: "General physician",
		Degree:     "MD",
		Experience: "4 Years",
		About:      "Diagnostics.",
		Fees:       500,
		Address:    identity.Address{Line1: "221B Princeton"},
	}
}

func TestAdd_CreatesAvailableDoctor(t *testing.T) {
	svc := NewService(newMockRepo())

	d, err := svc.Add(context.Background(), validAddInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Available {
		t.Error("new doctors must start available")
	}
	if d.SlotsBooked == nil || len(d.SlotsBooked) != 0 {
		t.Errorf("expected empty ledger, got %v", d.SlotsBooked)
	}
	if d.PasswordHash == "vicodin-and-sarcasm" {
		t.Error("password must be hashed")
	}
}

func TestAdd_RejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if _, err := svc.Add(ctx, validAddInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Add(ctx, validAddInput())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAdd_ValidatesInput(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	in := validAddInput()
	in.Name = ""
	if _, err := svc.Add(ctx, in); err == nil {
		t.Error("expected error for missing name")
	}

	in = validAddInput()
	in.Email = "bad-email"
	if _, err := svc.Add(ctx, in); err == nil {
		t.Error("expected error for bad email")
	}

	in = validAddInput()
	in.Password = "short"
	if _, err := svc.Add(ctx, in); err == nil {
		t.Error("expected error for short password")
	}

	in = validAddInput()
	in.Fees = -1
	if _, err := svc.Add(ctx, in); err == nil {
		t.Error("expected error for negative fees")
	}
}

func TestToggleAvailability(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	d, err := svc.Add(ctx, validAddInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	available, err := svc.ToggleAvailability(ctx, d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if available {
		t.Error("expected available=false after first toggle")
	}

	available, err = svc.ToggleAvailability(ctx, d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("expected available=true after second toggle")
	}
}

func TestToggleAvailability_UnknownDoctor(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.ToggleAvailability(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_FiltersUnavailable(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	d1, err := svc.Add(ctx, validAddInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := validAddInput()
	in.Email = "wilson@clinic.test"
	in.Name = "Dr. James Wilson"
	if _, err := svc.Add(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ToggleAvailability(ctx, d1.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profiles, total, err := svc.List(ctx, true, "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(profiles) != 1 {
		t.Fatalf("expected 1 available doctor, got %d", total)
	}
	if profiles[0].Name != "Dr. James Wilson" {
		t.Errorf("unexpected doctor listed: %s", profiles[0].Name)
	}
}

func TestMockRepo_UpdateSlotsCAS(t *testing.T) {
	repo := newMockRepo()
	ctx := context.Background()

	d := &Doctor{Name: "Dr. X", Email: "x@clinic.test", SlotsBooked: map[string][]string{}}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.UpdateSlots(ctx, d.ID, map[string][]string{"10_05_2024": {"10:00 AM"}}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := repo.UpdateSlots(ctx, d.ID, map[string][]string{}, 0)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict on stale version, got %v", err)
	}
}
