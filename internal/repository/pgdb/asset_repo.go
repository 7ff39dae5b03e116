package pgdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/internal/repository/pgdb/converter"
)

// AssetRepo реализует append-only журнал артефактов поверх PostgreSQL.
type AssetRepo struct {
	pool *pgxpool.Pool
	conv converter.AssetConverter
}

func NewAssetRepo(pool *pgxpool.Pool, conv converter.AssetConverter) *AssetRepo {
	return &AssetRepo{
		pool: pool,
		conv: conv,
	}
}

func (a *AssetRepo) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	model := a.conv.ToModel(asset)
	query := `
		INSERT INTO assets (certificate_id, role, object_key, checksum)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := a.pool.QueryRow(ctx, query,
		model.CertificateID,
		model.Role,
		model.ObjectKey,
		model.Checksum,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: failed to insert asset: %w", whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(model), nil
}
