package domain

import "time"

type ProductStatus string

const (
	ProductStatusPrecheck  ProductStatus = "PRECHECK"
	ProductStatusPaid      ProductStatus = "PAID"
	ProductStatusInReview  ProductStatus = "IN_REVIEW"
	ProductStatusCompleted ProductStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Product описывает продукт, поданный на сертификацию.
// Конвейер завершения переводит его в COMPLETED и никогда не удаляет.
type Product struct {
	ID            int64
	UserID        int64
	Name          string
	Brand         string
	Status        ProductStatus
	PaymentStatus PaymentStatus
	AdminProgress string
	FeeCents      int64 // Сумма сбора хранится в копейках
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
