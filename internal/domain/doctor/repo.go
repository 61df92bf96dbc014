package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no doctor matches the lookup.
	ErrNotFound = errors.New("doctor not found")
	// ErrVersionConflict is returned by UpdateSlots when the ledger changed
	// since it was read. Callers reload and retry.
	ErrVersionConflict = errors.New("slots version conflict")
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
	// UpdateSlots writes the booking ledger with a compare-and-swap on
	// slots_version. The write succeeds only if the stored version still
	// equals expectedVersion.
	UpdateSlots(ctx context.Context, id uuid.UUID, slots map[string][]string, expectedVersion int) error
	List(ctx context.Context, onlyAvailable bool, speciality string, limit, offset int) ([]*Doctor, int, error)
}
