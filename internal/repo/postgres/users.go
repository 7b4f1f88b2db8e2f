package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/geocoder89/sharedfeed/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, password, partner_id, created_at, updated_at`

type UsersRepo struct {
	base
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base: base{prom: prom}, pool: pool}
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UsersRepo) FindByPassword(ctx context.Context, password string) (user.User, error) {
	var u user.User

	err := r.observe("users.find_by_password", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE password = $1`,
			password,
		), &u)
	})

	if err != nil {
		return user.User{}, mapUserErr(err)
	}
	return u, nil
}

func (r *UsersRepo) FindByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.find_by_id", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`,
			id,
		), &u)
	})

	if err != nil {
		return user.User{}, mapUserErr(err)
	}
	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, name, password string) (user.User, error) {
	now := time.Now().UTC()

	u := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.observe("users.insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, name, password, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Name, u.Password, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrDuplicatePassword
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) LinkPartner(ctx context.Context, userID, partnerID string) error {
	var tag int64

	err := r.observe("users.link_partner", func() error {
		ct, err := r.pool.Exec(ctx,
			`UPDATE users SET partner_id = $2, updated_at = $3 WHERE id = $1`,
			userID, partnerID, time.Now().UTC(),
		)
		tag = ct.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if tag == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Password,
		&u.PartnerID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func mapUserErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrNotFound
	}
	return err
}
