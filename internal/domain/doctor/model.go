package doctor

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

// Doctor maps to the doctor table. SlotsBooked is the per-date booking
// ledger persisted as jsonb; SlotsVersion guards ledger writes against
// concurrent clobbering and is bumped on every successful ledger update.
type Doctor struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	Email        string              `db:"email" json:"email"`
	PasswordHash string              `db:"password_hash" json:"-"`
	ImageURL     *string             `db:"image_url" json:"image_url,omitempty"`
	Speciality   string              `db:"speciality" json:"speciality"`
	Degree       string              `db:"degree" json:"degree"`
	Experience   string              `db:"experience" json:"experience"`
	About        string              `db:"about" json:"about"`
	Fees         int64               `db:"fees" json:"fees"`
	Address      identity.Address    `db:"address" json:"address"`
	Available    bool                `db:"available" json:"available"`
	SlotsBooked  map[string][]string `db:"slots_booked" json:"slots_booked"`
	SlotsVersion int                 `db:"slots_version" json:"-"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// Profile is the public view of a doctor, shown in listings and embedded
// into appointment snapshots. It deliberately excludes the ledger.
type Profile struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	ImageURL   *string          `json:"image_url,omitempty"`
	Speciality string           `json:"speciality"`
	Degree     string           `json:"degree"`
	Experience string           `json:"experience"`
	About      string           `json:"about"`
	Fees       int64            `json:"fees"`
	Address    identity.Address `json:"address"`
	Available  bool             `json:"available"`
}

// PublicProfile strips credentials and the booking ledger from a doctor
// record.
func (d *Doctor) PublicProfile() Profile {
	return Profile{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		ImageURL:   d.ImageURL,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Experience: d.Experience,
		About:      d.About,
		Fees:       d.Fees,
		Address:    d.Address,
		Available:  d.Available,
	}
}
