package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/internal/repository/pgdb/converter"
	"github.com/prodseal/go-backend/pkg/e"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// GetByID возвращает продукт или nil, если продукт не найден.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, user_id, name, brand, status, payment_status,
		       admin_progress, fee_cents, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var model converter.ProductModel
	err := p.pool.QueryRow(ctx, query, id).
		Scan(
			&model.ID, &model.UserID, &model.Name, &model.Brand,
			&model.Status, &model.PaymentStatus, &model.AdminProgress,
			&model.FeeCents, &model.CreatedAt, &model.UpdatedAt,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// SetStatus обновляет статус продукта.
func (p *ProductRepo) SetStatus(ctx context.Context, id int64, status domain.ProductStatus) error {
	query := `
		UPDATE products
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := p.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: failed to set status of product %d: %w", whereami.WhereAmI(), id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: product %d not found", whereami.WhereAmI(), id)
	}

	return nil
}
