package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 8

// TokenMinter issues a signed credential for an authenticated subject.
type TokenMinter interface {
	Mint(subject string, roles ...string) (string, error)
}

type Service struct {
	patients Repository
	tokens   TokenMinter
}

func NewService(patients Repository, tokens TokenMinter) *Service {
	return &Service{patients: patients, tokens: tokens}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a patient account and returns a login token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Patient, string, error) {
	if in.Name == "" {
		return nil, "", fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", fmt.Errorf("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.patients.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	p := &Patient{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, "", fmt.Errorf("create patient: %w", err)
	}

	token, err := s.tokens.Mint(p.ID.String(), "patient")
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return p, token, nil
}

// Login verifies a patient's credentials and returns a login token.
func (s *Service) Login(ctx context.Context, email, password string) (*Patient, string, error) {
	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(p.ID.String(), "patient")
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return p, token, nil
}

// GetProfile returns the public profile for a patient.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := p.PublicProfile()
	return &profile, nil
}

type UpdateProfileInput struct {
	Name        string  `json:"name"`
	Phone       *string `json:"phone"`
	Address     Address `json:"address"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"`
	ImageURL    *string `json:"image_url"`
}

// UpdateProfile overwrites the mutable profile fields of a patient. Email and
// password are not editable through this path.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*Profile, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Phone = in.Phone
	p.Address = in.Address
	p.Gender = in.Gender
	p.DateOfBirth = in.DateOfBirth
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	profile := p.PublicProfile()
	return &profile, nil
}

// ListPatients returns a page of patient profiles for administrative use.
func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]Profile, int, error) {
	patients, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	profiles := make([]Profile, 0, len(patients))
	for _, p := range patients {
		profiles = append(profiles, p.PublicProfile())
	}
	return profiles, total, nil
}
