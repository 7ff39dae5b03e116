package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/internal/repository/pgdb/converter"
	"github.com/prodseal/go-backend/pkg/e"
)

// UserRepo реализует read-only репозиторий пользователей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

// GetByID возвращает пользователя или nil, если пользователь не найден.
func (u *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, name, created_at
		FROM users
		WHERE id = $1
	`

	var model converter.UserModel
	err := u.pool.QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Email, &model.Name, &model.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}
