package identity

import (
	"time"

	"github.com/google/uuid"
)

// Address is the structured postal address stored on a patient profile.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
}

// Patient maps to the patient table. PasswordHash is never serialized.
type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Address      Address   `db:"address" json:"address"`
	Gender       *string   `db:"gender" json:"gender,omitempty"`
	DateOfBirth  *string   `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is the public view of a patient embedded into appointment
// snapshots and returned by the profile endpoints.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     Address   `json:"address"`
	Gender      *string   `json:"gender,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
}

// PublicProfile strips credential fields from a patient record.
func (p *Patient) PublicProfile() Profile {
	return Profile{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		ImageURL:    p.ImageURL,
		Phone:       p.Phone,
		Address:     p.Address,
		Gender:      p.Gender,
		DateOfBirth: p.DateOfBirth,
	}
}
