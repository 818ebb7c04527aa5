package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/tokenauth/auth-service/internal/models"
)

const pgUniqueViolation = "23505"

// BunRepository implements Repository on a relational database through bun.
type BunRepository struct {
	db bun.IDB
}

// NewBunRepository works with *bun.DB as well as a bun.Tx.
func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(u).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *BunRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *BunRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	u := new(models.User)
	err := r.db.NewSelect().
		Model(u).
		Where("? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user by %s: %w", column, err)
	}
	return u, nil
}

func (r *BunRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	res, err := r.db.NewUpdate().
		Table("users").
		Set("refresh_token = ?", token).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BunRepository) SwapRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	res, err := r.db.NewUpdate().
		Table("users").
		Set("refresh_token = ?", next).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("refresh_token = ?", current).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("swap refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("swap refresh token: %w", err)
	}
	return n == 1, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// modernc and mattn sqlite drivers both report this text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
