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
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/e"
)

// CertificateRepo реализует репозиторий сертификатов поверх PostgreSQL.
type CertificateRepo struct {
	pool *pgxpool.Pool
	conv converter.CertificateConverter
}

func NewCertificateRepo(pool *pgxpool.Pool, conv converter.CertificateConverter) *CertificateRepo {
	return &CertificateRepo{
		pool: pool,
		conv: conv,
	}
}

// GetByProductID возвращает сертификат продукта или nil, если его ещё нет.
func (c *CertificateRepo) GetByProductID(ctx context.Context, productID int64) (*domain.Certificate, error) {
	query := `
		SELECT id, product_id, seal_number, pdf_key, qr_key, status,
		       external_reference_id, created_at, updated_at
		FROM certificates
		WHERE product_id = $1
	`

	var model converter.CertificateModel
	err := c.pool.QueryRow(ctx, query, productID).
		Scan(
			&model.ID, &model.ProductID, &model.SealNumber, &model.PdfKey,
			&model.QrKey, &model.Status, &model.ExternalReferenceID,
			&model.CreatedAt, &model.UpdatedAt,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// GetVerification возвращает публичные данные сертификата по номеру печати
// вместе с продуктом и владельцем, или nil при неизвестной печати.
func (c *CertificateRepo) GetVerification(ctx context.Context, sealNumber string) (*usecase.VerificationInfo, error) {
	query := `
		SELECT cert.id, cert.product_id, cert.seal_number, pr.name, pr.brand,
		       us.name, cert.status, cert.updated_at, cert.pdf_key, cert.qr_key
		FROM certificates cert
		JOIN products pr ON cert.product_id = pr.id
		JOIN users us ON pr.user_id = us.id
		WHERE cert.seal_number = $1
	`

	var info usecase.VerificationInfo
	err := c.pool.QueryRow(ctx, query, sealNumber).
		Scan(
			&info.CertificateID, &info.ProductID, &info.SealNumber,
			&info.ProductName, &info.Brand, &info.HolderName,
			&info.Status, &info.IssuedAt, &info.PdfKey, &info.QrKey,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &info, nil
}

// CreatePlaceholder создаёт строку-заготовку сертификата без печати и ключей.
// При гонке на уникальном product_id возвращается уже существующая строка.
func (c *CertificateRepo) CreatePlaceholder(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error) {
	query := `
		INSERT INTO certificates (product_id, status, external_reference_id)
		VALUES ($1, $2, $3)
		RETURNING id, product_id, seal_number, pdf_key, qr_key, status,
		          external_reference_id, created_at, updated_at
	`

	var model converter.CertificateModel
	err := c.pool.QueryRow(ctx, query, cert.ProductID, string(cert.Status), cert.ExternalReferenceID).
		Scan(
			&model.ID, &model.ProductID, &model.SealNumber, &model.PdfKey,
			&model.QrKey, &model.Status, &model.ExternalReferenceID,
			&model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if postgresDuplicate(err) {
			return c.GetByProductID(ctx, cert.ProductID)
		}

		return nil, fmt.Errorf("%s: failed to insert certificate placeholder: %w", whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// SealNumberExists проверяет занятость номера печати.
func (c *CertificateRepo) SealNumberExists(ctx context.Context, sealNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM certificates WHERE seal_number = $1)`

	var exists bool
	if err := c.pool.QueryRow(ctx, query, sealNumber).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// SetArtifacts одним обновлением записывает номер печати, ключи артефактов и
// переводит сертификат в ISSUED. Уже выпущенный сертификат не перезаписывается.
func (c *CertificateRepo) SetArtifacts(ctx context.Context, req *usecase.SetArtifactsReq) error {
	query := `
		UPDATE certificates
		SET seal_number = $1, pdf_key = $2, qr_key = $3, status = $4, updated_at = NOW()
		WHERE id = $5 AND seal_number IS NULL
	`

	result, err := c.pool.Exec(ctx, query,
		req.SealNumber, req.PdfKey, req.QrKey,
		string(domain.CertificateStatusIssued), req.CertificateID,
	)
	if err != nil {
		if postgresDuplicate(err) {
			return fmt.Errorf("%s: seal number %s already taken: %w", whereami.WhereAmI(), req.SealNumber, err)
		}

		return fmt.Errorf("%s: failed to set artifacts of certificate %d: %w", whereami.WhereAmI(), req.CertificateID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: certificate %d already issued or not found", whereami.WhereAmI(), req.CertificateID)
	}

	return nil
}
