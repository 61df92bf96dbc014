package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `id, name, email, password_hash, image_url, speciality, degree,
	experience, about, fees, address, available, slots_booked, slots_version,
	created_at, updated_at`

func (r *repoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.PasswordHash, &d.ImageURL, &d.Speciality,
		&d.Degree, &d.Experience, &d.About, &d.Fees, &d.Address, &d.Available,
		&d.SlotsBooked, &d.SlotsVersion, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.SlotsBooked == nil {
		d.SlotsBooked = map[string][]string{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor (id, name, email, password_hash, image_url, speciality, degree,
			experience, about, fees, address, available, slots_booked)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		d.ID, d.Name, d.Email, d.PasswordHash, d.ImageURL, d.Speciality, d.Degree,
		d.Experience, d.About, d.Fees, d.Address, d.Available, d.SlotsBooked)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor SET name=$2, image_url=$3, speciality=$4, degree=$5, experience=$6,
			about=$7, fees=$8, address=$9, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.ImageURL, d.Speciality, d.Degree, d.Experience,
		d.About, d.Fees, d.Address)
	return err
}

func (r *repoPG) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctor SET available=$2, updated_at=NOW() WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSlots performs the compare-and-swap ledger write. Zero rows affected
// means the version moved under us, never that the doctor vanished; callers
// that need the distinction reload the doctor.
func (r *repoPG) UpdateSlots(ctx context.Context, id uuid.UUID, slots map[string][]string, expectedVersion int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor SET slots_booked=$2, slots_version=slots_version+1, updated_at=NOW()
		WHERE id = $1 AND slots_version = $3`,
		id, slots, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, onlyAvailable bool, speciality string, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorCols + ` FROM doctor WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM doctor WHERE 1=1`
	var args []interface{}
	idx := 1

	if onlyAvailable {
		query += ` AND available = true`
		countQuery += ` AND available = true`
	}
	if speciality != "" {
		query += fmt.Sprintf(` AND speciality = $%d`, idx)
		countQuery += fmt.Sprintf(` AND speciality = $%d`, idx)
		args = append(args, speciality)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}
