package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

// ErrEmailTaken is returned when a doctor with the same email already exists.
var ErrEmailTaken = errors.New("email already registered")

const minPasswordLength = 8

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

type AddInput struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	ImageURL   *string          `json:"image_url"`
	Speciality string           `json:"speciality"`
	Degree     string           `json:"degree"`
	Experience string           `json:"experience"`
	About      string           `json:"about"`
	Fees       int64            `json:"fees"`
	Address    identity.Address `json:"address"`
}

// Add registers a new doctor. New doctors start available with an empty
// ledger.
func (s *Service) Add(ctx context.Context, in AddInput) (*Doctor, error) {
	if in.Name == "" || in.Speciality == "" || in.Degree == "" {
		return nil, fmt.Errorf("name, speciality and degree are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if in.Fees < 0 {
		return nil, fmt.Errorf("fees must not be negative")
	}

	if _, err := s.doctors.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &Doctor{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		ImageURL:     in.ImageURL,
		Speciality:   in.Speciality,
		Degree:       in.Degree,
		Experience:   in.Experience,
		About:        in.About,
		Fees:         in.Fees,
		Address:      in.Address,
		Available:    true,
		SlotsBooked:  map[string][]string{},
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

// Get returns a single doctor record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// ToggleAvailability flips the available flag and returns the new value.
func (s *Service) ToggleAvailability(ctx context.Context, id uuid.UUID) (bool, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	next := !d.Available
	if err := s.doctors.SetAvailable(ctx, id, next); err != nil {
		return false, err
	}
	return next, nil
}

// List returns public doctor profiles. When onlyAvailable is set, doctors
// who are not accepting bookings are excluded.
func (s *Service) List(ctx context.Context, onlyAvailable bool, speciality string, limit, offset int) ([]Profile, int, error) {
	doctors, total, err := s.doctors.List(ctx, onlyAvailable, speciality, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	profiles := make([]Profile, 0, len(doctors))
	for _, d := range doctors {
		profiles = append(profiles, d.PublicProfile())
	}
	return profiles, total, nil
}
