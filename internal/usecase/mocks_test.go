package usecase

import (
	"context"
	"time"

	"github.com/prodseal/go-backend/internal/domain"
)

// Ручные моки коллабораторов движка завершения.

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type productRepoMock struct {
	getByID   func(ctx context.Context, id int64) (*domain.Product, error)
	setStatus func(ctx context.Context, id int64, status domain.ProductStatus) error

	statusCalls []domain.ProductStatus
}

func (m *productRepoMock) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return m.getByID(ctx, id)
}

func (m *productRepoMock) SetStatus(ctx context.Context, id int64, status domain.ProductStatus) error {
	m.statusCalls = append(m.statusCalls, status)
	if m.setStatus != nil {
		return m.setStatus(ctx, id, status)
	}
	return nil
}

type userRepoMock struct {
	getByID func(ctx context.Context, id int64) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByID(ctx, id)
}

type certRepoMock struct {
	getByProductID    func(ctx context.Context, productID int64) (*domain.Certificate, error)
	getVerification   func(ctx context.Context, sealNumber string) (*VerificationInfo, error)
	createPlaceholder func(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error)
	sealNumberExists  func(ctx context.Context, sealNumber string) (bool, error)
	setArtifacts      func(ctx context.Context, req *SetArtifactsReq) error

	existsCalls       int
	setArtifactsCalls []*SetArtifactsReq
}

func (m *certRepoMock) GetByProductID(ctx context.Context, productID int64) (*domain.Certificate, error) {
	return m.getByProductID(ctx, productID)
}

func (m *certRepoMock) GetVerification(ctx context.Context, sealNumber string) (*VerificationInfo, error) {
	return m.getVerification(ctx, sealNumber)
}

func (m *certRepoMock) CreatePlaceholder(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error) {
	return m.createPlaceholder(ctx, cert)
}

func (m *certRepoMock) SealNumberExists(ctx context.Context, sealNumber string) (bool, error) {
	m.existsCalls++
	return m.sealNumberExists(ctx, sealNumber)
}

func (m *certRepoMock) SetArtifacts(ctx context.Context, req *SetArtifactsReq) error {
	m.setArtifactsCalls = append(m.setArtifactsCalls, req)
	if m.setArtifacts != nil {
		return m.setArtifacts(ctx, req)
	}
	return nil
}

type jobRepoMock struct {
	createOrReuse     func(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error)
	getByID           func(ctx context.Context, id string) (*domain.CompletionJob, error)
	claim             func(ctx context.Context, id string) (bool, error)
	markDone          func(ctx context.Context, id string) error
	markFailed        func(ctx context.Context, id string, cause string) error
	listOldestPending func(ctx context.Context, limit int) ([]*domain.CompletionJob, error)

	doneCalls   []string
	failedCalls map[string]string
}

func (m *jobRepoMock) CreateOrReuse(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error) {
	return m.createOrReuse(ctx, productID)
}

func (m *jobRepoMock) GetByID(ctx context.Context, id string) (*domain.CompletionJob, error) {
	return m.getByID(ctx, id)
}

func (m *jobRepoMock) Claim(ctx context.Context, id string) (bool, error) {
	return m.claim(ctx, id)
}

func (m *jobRepoMock) MarkDone(ctx context.Context, id string) error {
	m.doneCalls = append(m.doneCalls, id)
	if m.markDone != nil {
		return m.markDone(ctx, id)
	}
	return nil
}

func (m *jobRepoMock) MarkFailed(ctx context.Context, id string, cause string) error {
	if m.failedCalls == nil {
		m.failedCalls = make(map[string]string)
	}
	m.failedCalls[id] = cause
	if m.markFailed != nil {
		return m.markFailed(ctx, id, cause)
	}
	return nil
}

func (m *jobRepoMock) ListOldestPending(ctx context.Context, limit int) ([]*domain.CompletionJob, error) {
	return m.listOldestPending(ctx, limit)
}

type assetRepoMock struct {
	created []*domain.Asset
	err     error
}

func (m *assetRepoMock) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, asset)
	return asset, nil
}

type cacheRepoMock struct {
	getVerification func(ctx context.Context, sealNumber string) (*VerificationInfo, error)
	setVerification func(ctx context.Context, info *VerificationInfo) error

	deleted []string
	setErr  error
	delErr  error
}

func (m *cacheRepoMock) GetVerification(ctx context.Context, sealNumber string) (*VerificationInfo, error) {
	if m.getVerification != nil {
		return m.getVerification(ctx, sealNumber)
	}
	return nil, nil
}

func (m *cacheRepoMock) SetVerification(ctx context.Context, info *VerificationInfo) error {
	if m.setVerification != nil {
		return m.setVerification(ctx, info)
	}
	return m.setErr
}

func (m *cacheRepoMock) DeleteVerification(ctx context.Context, sealNumber string) error {
	m.deleted = append(m.deleted, sealNumber)
	return m.delErr
}

type rendererMock struct {
	render func(ctx context.Context, req *RenderCertificateReq) (*RenderedArtifacts, error)

	calls int
}

func (m *rendererMock) Render(ctx context.Context, req *RenderCertificateReq) (*RenderedArtifacts, error) {
	m.calls++
	if m.render != nil {
		return m.render(ctx, req)
	}
	return &RenderedArtifacts{PDF: []byte("%PDF"), QR: []byte("\x89PNG")}, nil
}

type storageMock struct {
	store func(ctx context.Context, req *StoreArtifactsReq) (*StoredArtifacts, error)
	sign  func(ctx context.Context, objectKey string) (string, error)

	storeCalls int
}

func (m *storageMock) StoreArtifacts(ctx context.Context, req *StoreArtifactsReq) (*StoredArtifacts, error) {
	m.storeCalls++
	if m.store != nil {
		return m.store(ctx, req)
	}
	return NewStoredArtifacts(
		"certificates/"+req.SealNumber+"/certificate.pdf",
		"certificates/"+req.SealNumber+"/qr.png",
	), nil
}

func (m *storageMock) SignArtifact(ctx context.Context, objectKey string) (string, error) {
	if m.sign != nil {
		return m.sign(ctx, objectKey)
	}
	return "https://signed.example/" + objectKey, nil
}

type notifierMock struct {
	err   error
	calls []*CompletionEmailReq
}

func (m *notifierMock) SendCompletionEmail(ctx context.Context, req *CompletionEmailReq) error {
	m.calls = append(m.calls, req)
	return m.err
}

type producerMock struct {
	err    error
	events []*CertificateIssuedEvent
}

func (m *producerMock) PublishCertificateIssued(ctx context.Context, event *CertificateIssuedEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func strPtr(s string) *string { return &s }

func pendingJob(id string, productID int64) *domain.CompletionJob {
	return &domain.CompletionJob{
		ID:        id,
		ProductID: productID,
		Status:    domain.JobStatusPending,
		CreatedAt: time.Now(),
	}
}
