package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, type, content, caption, image_url, user_id, user_name, date, created_at, updated_at`

var sortColumns = map[post.SortField]string{
	post.SortDate:      `"date"`,
	post.SortCreatedAt: "created_at",
	post.SortUpdatedAt: "updated_at",
	post.SortType:      "type",
	post.SortUserName:  "user_name",
}

type PostsRepo struct {
	base
	pool *pgxpool.Pool
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{base: base{prom: prom}, pool: pool}
}

func (r *PostsRepo) Insert(ctx context.Context, p post.Post) (post.Post, error) {
	p.ID = uuid.NewString()

	err := r.observe("posts.insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO posts (`+postColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, string(p.Type), p.Content, p.Caption, p.ImageURL,
			p.UserID, p.UserName, p.Date, p.CreatedAt, p.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return post.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) Find(ctx context.Context, filter post.Filter, sort post.Sort, skip, limit int) ([]post.Post, error) {
	where, args := whereClause(filter)

	args = append(args, limit, skip)
	query := fmt.Sprintf(
		`SELECT %s FROM posts %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		postColumns, where, orderBy(sort), len(args)-1, len(args),
	)

	out := make([]post.Post, 0, limit)

	err := r.observe("posts.find", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p post.Post
			var typ string

			if err := rows.Scan(
				&p.ID, &typ, &p.Content, &p.Caption, &p.ImageURL,
				&p.UserID, &p.UserName, &p.Date, &p.CreatedAt, &p.UpdatedAt,
			); err != nil {
				return err
			}
			p.Type = post.Type(typ)
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PostsRepo) Count(ctx context.Context, filter post.Filter) (int64, error) {
	where, args := whereClause(filter)

	var total int64

	err := r.observe("posts.count", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts `+where, args...).Scan(&total)
	})

	return total, err
}

func whereClause(filter post.Filter) (string, []any) {
	var conds []string
	var args []any

	if len(filter.OwnerIDs) > 0 {
		args = append(args, filter.OwnerIDs)
		conds = append(conds, fmt.Sprintf("user_id = ANY($%d)", len(args)))
	}
	if len(filter.OwnerNames) > 0 {
		args = append(args, filter.OwnerNames)
		conds = append(conds, fmt.Sprintf("user_name = ANY($%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(sort post.Sort) string {
	col, ok := sortColumns[sort.Field]
	if !ok {
		col = sortColumns[post.SortDate]
	}

	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", id " + dir
}
