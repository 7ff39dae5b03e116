package converter

import "time"

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID            int64      `db:"id"`
	UserID        int64      `db:"user_id"`
	Name          string     `db:"name"`
	Brand         string     `db:"brand"`
	Status        string     `db:"status"`
	PaymentStatus string     `db:"payment_status"`
	AdminProgress string     `db:"admin_progress"`
	FeeCents      int64      `db:"fee_cents"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at"`
}

// CertificateModel представляет запись таблицы certificates в PostgreSQL.
type CertificateModel struct {
	ID                  int64      `db:"id"`
	ProductID           int64      `db:"product_id"`
	SealNumber          *string    `db:"seal_number"`
	PdfKey              *string    `db:"pdf_key"`
	QrKey               *string    `db:"qr_key"`
	Status              string     `db:"status"`
	ExternalReferenceID string     `db:"external_reference_id"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           *time.Time `db:"updated_at"`
}

// CompletionJobModel представляет запись таблицы completion_jobs в PostgreSQL.
type CompletionJobModel struct {
	ID        string     `db:"id"`
	ProductID int64      `db:"product_id"`
	Status    string     `db:"status"`
	Attempts  int        `db:"attempts"`
	LastError *string    `db:"last_error"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// AssetModel представляет запись таблицы assets в PostgreSQL.
type AssetModel struct {
	ID            int64     `db:"id"`
	CertificateID int64     `db:"certificate_id"`
	Role          string    `db:"role"`
	ObjectKey     string    `db:"object_key"`
	Checksum      string    `db:"checksum"`
	CreatedAt     time.Time `db:"created_at"`
}
