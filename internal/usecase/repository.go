package usecase

import (
	"context"

	"github.com/prodseal/go-backend/internal/domain"
)

type ProductRepository interface {
	// GetByID возвращает продукт или nil, если продукт не найден.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	SetStatus(ctx context.Context, id int64, status domain.ProductStatus) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type CertificateRepository interface {
	// GetByProductID возвращает сертификат продукта или nil, если его ещё нет.
	GetByProductID(ctx context.Context, productID int64) (*domain.Certificate, error)
	GetVerification(ctx context.Context, sealNumber string) (*VerificationInfo, error)
	CreatePlaceholder(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error)
	SealNumberExists(ctx context.Context, sealNumber string) (bool, error)
	// SetArtifacts одним обновлением записывает номер печати и ключи артефактов.
	// Уникальность seal_number гарантирует ограничение БД на момент записи.
	SetArtifacts(ctx context.Context, req *SetArtifactsReq) error
}

type CompletionJobRepository interface {
	// CreateOrReuse возвращает нетерминальное задание продукта, создавая его при
	// отсутствии. FAILED-задание возрождается в PENDING с сохранением attempts.
	// Второе значение — true, если задание было переиспользовано.
	CreateOrReuse(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error)
	GetByID(ctx context.Context, id string) (*domain.CompletionJob, error)
	// Claim атомарно переводит PENDING -> PROCESSING.
	// Возвращает false, если задание уже не в PENDING.
	Claim(ctx context.Context, id string) (bool, error)
	MarkDone(ctx context.Context, id string) error
	// MarkFailed переводит задание в FAILED, увеличивает attempts и сохраняет причину.
	MarkFailed(ctx context.Context, id string, cause string) error
	ListOldestPending(ctx context.Context, limit int) ([]*domain.CompletionJob, error)
}

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error)
}

type VerifyCacheRepository interface {
	// GetVerification возвращает nil на промахе кэша.
	GetVerification(ctx context.Context, sealNumber string) (*VerificationInfo, error)
	SetVerification(ctx context.Context, info *VerificationInfo) error
	DeleteVerification(ctx context.Context, sealNumber string) error
}
