package usecase

import (
	"time"

	"github.com/prodseal/go-backend/internal/domain"
)

// COMPLETION USECASE

// EnqueueRes — результат постановки задания завершения.
// Reused — true, если переиспользовано существующее нетерминальное задание.
type EnqueueRes struct {
	Job    *domain.CompletionJob
	Reused bool
}

// CompletionResult — итог успешной обработки задания завершения.
type CompletionResult struct {
	CertificateID int64
	SealNumber    string
	VerifyURL     string
}

// JobResult — результат обработки одного задания в пакете.
type JobResult struct {
	JobID     string
	ProductID int64
	OK        bool
	Error     string
}

// BatchResult — сводка пакетной обработки: неуспех одного задания не прерывает
// остальные.
type BatchResult struct {
	Processed int
	Results   []JobResult
}

// INFRASTRUCTURE

// RenderCertificateReq — данные для рендеринга PDF-сертификата и QR-кода.
type RenderCertificateReq struct {
	ProductName string
	Brand       string
	HolderName  string
	SealNumber  string
	VerifyURL   string
	FeeCents    int64
	IssuedAt    time.Time
}

// RenderedArtifacts — буферы сгенерированных артефактов.
type RenderedArtifacts struct {
	PDF []byte
	QR  []byte
}

type StoreArtifactsReq struct {
	SealNumber string
	PDF        []byte
	QR         []byte
}

// StoredArtifacts — ключи загруженных объектов в хранилище артефактов.
type StoredArtifacts struct {
	PdfKey string
	QrKey  string
}

type CompletionEmailReq struct {
	To          string
	HolderName  string
	ProductName string
	SealNumber  string
	VerifyURL   string
	PdfURL      string
	QrURL       string
}

// CertificateIssuedEvent публикуется в Kafka после выпуска сертификата.
type CertificateIssuedEvent struct {
	EventID       string    `json:"event_id"`
	ProductID     int64     `json:"product_id"`
	CertificateID int64     `json:"certificate_id"`
	SealNumber    string    `json:"seal_number"`
	VerifyURL     string    `json:"verify_url"`
	IssuedAt      time.Time `json:"issued_at"`
}

// REPOSITORIES

type SetArtifactsReq struct {
	CertificateID int64
	SealNumber    string
	PdfKey        string
	QrKey         string
}

// VerificationInfo — данные сертификата для публичной верификации по печати.
type VerificationInfo struct {
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

// VerificationRes — ответ верификации с подписанными ссылками на артефакты.
type VerificationRes struct {
	Info   *VerificationInfo
	PdfURL string
	QrURL  string
}

// MAPPERS

func NewEnqueueRes(job *domain.CompletionJob, reused bool) *EnqueueRes {
	return &EnqueueRes{
		Job:    job,
		Reused: reused,
	}
}

func NewCompletionResult(certificateID int64, sealNumber, verifyURL string) *CompletionResult {
	return &CompletionResult{
		CertificateID: certificateID,
		SealNumber:    sealNumber,
		VerifyURL:     verifyURL,
	}
}

func NewBatchResult(results []JobResult) *BatchResult {
	return &BatchResult{
		Processed: len(results),
		Results:   results,
	}
}

func NewRenderCertificateReq(product *domain.Product, user *domain.User, sealNumber, verifyURL string) *RenderCertificateReq {
	return &RenderCertificateReq{
		ProductName: product.Name,
		Brand:       product.Brand,
		HolderName:  user.Name,
		SealNumber:  sealNumber,
		VerifyURL:   verifyURL,
		FeeCents:    product.FeeCents,
		IssuedAt:    time.Now(),
	}
}

func NewStoreArtifactsReq(sealNumber string, pdf, qr []byte) *StoreArtifactsReq {
	return &StoreArtifactsReq{
		SealNumber: sealNumber,
		PDF:        pdf,
		QR:         qr,
	}
}

func NewStoredArtifacts(pdfKey, qrKey string) *StoredArtifacts {
	return &StoredArtifacts{
		PdfKey: pdfKey,
		QrKey:  qrKey,
	}
}

func NewSetArtifactsReq(certificateID int64, sealNumber, pdfKey, qrKey string) *SetArtifactsReq {
	return &SetArtifactsReq{
		CertificateID: certificateID,
		SealNumber:    sealNumber,
		PdfKey:        pdfKey,
		QrKey:         qrKey,
	}
}

func NewVerificationRes(info *VerificationInfo, pdfURL, qrURL string) *VerificationRes {
	return &VerificationRes{
		Info:   info,
		PdfURL: pdfURL,
		QrURL:  qrURL,
	}
}
