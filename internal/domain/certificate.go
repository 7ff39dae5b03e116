package domain

import "time"

type CertificateStatus string

const (
	CertificateStatusPending CertificateStatus = "PENDING"
	CertificateStatusIssued  CertificateStatus = "ISSUED"
	CertificateStatusRevoked CertificateStatus = "REVOKED"
)

// Certificate — сертификат продукта (1:1).
// Строка-заготовка создаётся до генерации артефактов: SealNumber и ссылки
// заполняются одним обновлением только после успешной загрузки PDF и QR.
// Назначенный SealNumber неизменяем.
type Certificate struct {
	ID                  int64
	ProductID           int64
	SealNumber          *string
	PdfKey              *string // Ключ объекта PDF в хранилище артефактов
	QrKey               *string // Ключ объекта QR в хранилище артефактов
	Status              CertificateStatus
	ExternalReferenceID string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// Issued сообщает, завершён ли выпуск сертификата: печать назначена и
// артефакты загружены.
func (c *Certificate) Issued() bool {
	return c != nil &&
		c.SealNumber != nil && *c.SealNumber != "" &&
		c.PdfKey != nil && *c.PdfKey != ""
}

func NewCertificatePlaceholder(productID int64, externalReferenceID string) *Certificate {
	return &Certificate{
		ProductID:           productID,
		Status:              CertificateStatusPending,
		ExternalReferenceID: externalReferenceID,
	}
}
