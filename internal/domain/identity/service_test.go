package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
	failNext error
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Patient, error) {
	for _, p := range m.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.patients {
		cp := *p
		items = append(items, &cp)
	}
	return items, len(items), nil
}

type stubMinter struct{ token string }

func (s stubMinter) Mint(subject string, roles ...string) (string, error) {
	return s.token, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, stubMinter{token: "tok-123"}), repo
}

func TestRegister_CreatesPatient(t *testing.T) {
	svc, repo := newTestService()

	p, token, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada Lovelace", Email: "ada@example.com", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected token, got %q", token)
	}
	if p.PasswordHash == "correct-horse" {
		t.Error("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("correct-horse")); err != nil {
		t.Error("stored hash does not verify")
	}
	if len(repo.patients) != 1 {
		t.Errorf("expected 1 stored patient, got %d", len(repo.patients))
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	in := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}
	if _, _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err := svc.Register(context.Background(), in)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_ValidatesInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "longenough"}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "longenough"}); err == nil {
		t.Error("expected error for bad email")
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "short"}); err == nil {
		t.Error("expected error for short password")
	}
}

func TestLogin_Succeeds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	p, token, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || p.Email != "ada@example.com" {
		t.Errorf("unexpected login result: token=%q email=%q", token, p.Email)
	}
}

func TestLogin_RejectsBadPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(ctx, "ada@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	phone := "555-0101"
	profile, err := svc.UpdateProfile(ctx, p.ID, UpdateProfileInput{
		Name:    "Ada L.",
		Phone:   &phone,
		Address: Address{Line1: "12 Analytical Way"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Ada L." || profile.Phone == nil || *profile.Phone != "555-0101" {
		t.Errorf("profile not updated: %+v", profile)
	}
	if profile.Address.Line1 != "12 Analytical Way" {
		t.Errorf("address not updated: %+v", profile.Address)
	}
}

func TestUpdateProfile_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileInput{Name: "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetProfile_StripsCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	profile, err := svc.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Email != "ada@example.com" || profile.Name != "Ada" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}
