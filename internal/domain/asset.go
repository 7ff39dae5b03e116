package domain

import "time"

type AssetRole string

const (
	AssetRoleOfficialPDF   AssetRole = "OFFICIAL_PDF"
	AssetRoleCertificateQR AssetRole = "CERTIFICATE_QR"
)

// Asset связывает роль артефакта с ключом в объектном хранилище и контрольной
// суммой содержимого. Записи только добавляются; при повторной генерации
// старая запись вытесняется новой записью той же роли.
type Asset struct {
	ID            int64
	CertificateID int64
	Role          AssetRole
	ObjectKey     string
	Checksum      string
	CreatedAt     time.Time
}

func NewAsset(certificateID int64, role AssetRole, objectKey, checksum string) *Asset {
	return &Asset{
		CertificateID: certificateID,
		Role:          role,
		ObjectKey:     objectKey,
		Checksum:      checksum,
	}
}
