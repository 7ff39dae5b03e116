package converter

import "time"

// VerificationRedisModel — кэшируемое представление данных верификации.
type VerificationRedisModel struct {
	CertificateID int64     `json:"certificate_id"`
	ProductID     int64     `json:"product_id"`
	SealNumber    string    `json:"seal_number"`
	ProductName   string    `json:"product_name"`
	Brand         string    `json:"brand"`
	HolderName    string    `json:"holder_name"`
	Status        string    `json:"status"`
	IssuedAt      time.Time `json:"issued_at"`
	PdfKey        string    `json:"pdf_key"`
	QrKey         string    `json:"qr_key"`
}
