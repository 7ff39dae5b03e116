//go:generate goverter gen github.com/prodseal/go-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/prodseal/go-backend/internal/domain"
)

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type UserConverter interface {
	ToEntity(model *UserModel) *domain.User
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertProductStatus
// goverter:extend ConvertPaymentStatus
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// CertificateConverter преобразует сущности Certificate между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertCertificateStatus
type CertificateConverter interface {
	ToModel(entity *domain.Certificate) *CertificateModel
	ToEntity(model *CertificateModel) *domain.Certificate
}

// CompletionJobConverter преобразует сущности CompletionJob между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertJobStatus
type CompletionJobConverter interface {
	ToEntity(model *CompletionJobModel) *domain.CompletionJob
	ToArrEntity(models []*CompletionJobModel) []*domain.CompletionJob
}

// AssetConverter преобразует сущности Asset между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
type AssetConverter interface {
	ToModel(entity *domain.Asset) *AssetModel
	ToEntity(model *AssetModel) *domain.Asset
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertProductStatus(s string) domain.ProductStatus {
	return domain.ProductStatus(s)
}

func ConvertPaymentStatus(s string) domain.PaymentStatus {
	return domain.PaymentStatus(s)
}

func ConvertCertificateStatus(s string) domain.CertificateStatus {
	return domain.CertificateStatus(s)
}

func ConvertJobStatus(s string) domain.CompletionJobStatus {
	return domain.CompletionJobStatus(s)
}
