package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
)

// CompletionUseCase — движок заданий завершения сертификации.
// Единственная точка входа ProcessJob обслуживает и синхронный вызов из HTTP,
// и оба драйвера очереди; корректность при гонках обеспечивают атомарный
// захват задания и идемпотентный выход, а не внутрипроцессные блокировки.
type CompletionUseCase struct {
	productRepo ProductRepository
	userRepo    UserRepository
	certRepo    CertificateRepository
	jobRepo     CompletionJobRepository
	assetRepo   AssetRepository
	cacheRepo   VerifyCacheRepository
	allocator   *SealAllocator
	renderer    CertificateRenderer
	storage     ArtifactStorage
	notifier    Notifier
	events      EventProducer
	certCfg     *cfg.CertCfg
	workerCfg   *cfg.WorkerCfg
	logger      logger.Logger
}

func NewCompletionUC(
	productRepo ProductRepository,
	userRepo UserRepository,
	certRepo CertificateRepository,
	jobRepo CompletionJobRepository,
	assetRepo AssetRepository,
	cacheRepo VerifyCacheRepository,
	allocator *SealAllocator,
	renderer CertificateRenderer,
	storage ArtifactStorage,
	notifier Notifier,
	events EventProducer,
	certCfg *cfg.CertCfg,
	workerCfg *cfg.WorkerCfg,
	logger logger.Logger,
) *CompletionUseCase {
	return &CompletionUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		certRepo:    certRepo,
		jobRepo:     jobRepo,
		assetRepo:   assetRepo,
		cacheRepo:   cacheRepo,
		allocator:   allocator,
		renderer:    renderer,
		storage:     storage,
		notifier:    notifier,
		events:      events,
		certCfg:     certCfg,
		workerCfg:   workerCfg,
		logger:      logger,
	}
}

// Enqueue ставит задание завершения для продукта.
// Существующее нетерминальное задание переиспользуется, FAILED-задание
// возрождается в PENDING; дубликаты исключает частичный уникальный индекс.
func (c *CompletionUseCase) Enqueue(ctx context.Context, productID int64) (*EnqueueRes, error) {
	const op = "CompletionUseCase.Enqueue"

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product == nil {
		return nil, e.NewCompletionError(e.CodeProductNotFound, http.StatusNotFound, map[string]any{"product_id": productID})
	}
	if product.Status == domain.ProductStatusCompleted {
		return nil, e.NewCompletionError(e.CodeAlreadyCompleted, http.StatusConflict, map[string]any{"product_id": productID})
	}

	job, reused, err := c.jobRepo.CreateOrReuse(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewEnqueueRes(job, reused), nil
}

// ProcessJob выполняет конвейер завершения для одного задания.
// Возвращает либо результат, либо типизированную ошибку; задание никогда не
// остаётся в PROCESSING после возврата.
func (c *CompletionUseCase) ProcessJob(ctx context.Context, jobID string) (*CompletionResult, error) {
	const op = "CompletionUseCase.ProcessJob"

	job, err := c.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if job == nil {
		return nil, e.NewCompletionError(e.CodeJobNotFound, http.StatusNotFound, map[string]any{"job_id": jobID})
	}

	// Терминальное задание не перезапускается отсюда: из DONE/FAILED выводит
	// только явная повторная постановка.
	if job.Terminal() {
		return nil, e.NewCompletionError(e.CodeJobNotPending, http.StatusConflict, map[string]any{
			"job_id": job.ID,
			"status": string(job.Status),
		})
	}

	// Атомарный захват PENDING -> PROCESSING: из двух гонящихся драйверов
	// проигравший получает JOB_NOT_PENDING и не повторяет побочных эффектов.
	claimed, err := c.jobRepo.Claim(ctx, job.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !claimed {
		return nil, e.NewCompletionError(e.CodeJobNotPending, http.StatusConflict, map[string]any{
			"job_id": job.ID,
			"status": string(job.Status),
		})
	}

	res, err := c.runPipeline(ctx, job)
	if err != nil {
		// Терминальный переход выполняется на контексте, отвязанном от отмены
		// вызывающего: обрыв клиента посреди конвейера не должен оставить
		// задание в PROCESSING.
		markCtx, cancelMark := c.terminalCtx(ctx)
		defer cancelMark()

		if markErr := c.jobRepo.MarkFailed(markCtx, job.ID, err.Error()); markErr != nil {
			c.logger.Errorf(markErr, "failed to mark job %s as FAILED", job.ID)
		}

		var ce *e.CompletionError
		if errors.As(err, &ce) {
			return nil, err
		}

		return nil, e.WrapInternal(e.Wrap(op, err))
	}

	doneCtx, cancelDone := c.terminalCtx(ctx)
	defer cancelDone()

	if err := c.jobRepo.MarkDone(doneCtx, job.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// ProcessBatch обрабатывает до limit старейших PENDING-заданий последовательно.
// Неуспех отдельного задания фиксируется в его результате и не прерывает пакет.
func (c *CompletionUseCase) ProcessBatch(ctx context.Context, limit int) (*BatchResult, error) {
	const op = "CompletionUseCase.ProcessBatch"

	if limit <= 0 {
		limit = c.workerCfg.BatchLimit
	}
	if limit > c.workerCfg.BatchMax {
		limit = c.workerCfg.BatchMax
	}

	jobs, err := c.jobRepo.ListOldestPending(ctx, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	results := make([]JobResult, 0, len(jobs))
	for _, job := range jobs {
		result := JobResult{JobID: job.ID, ProductID: job.ProductID}

		if _, err := c.ProcessJob(ctx, job.ID); err != nil {
			result.Error = err.Error()
			c.logger.Warnf("batch: job %s failed: %v", job.ID, err)
		} else {
			result.OK = true
		}

		results = append(results, result)
	}

	return NewBatchResult(results), nil
}

func (c *CompletionUseCase) GetJob(ctx context.Context, jobID string) (*domain.CompletionJob, error) {
	const op = "CompletionUseCase.GetJob"

	job, err := c.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if job == nil {
		return nil, e.NewCompletionError(e.CodeJobNotFound, http.StatusNotFound, map[string]any{"job_id": jobID})
	}

	return job, nil
}

// runPipeline — шаги 2-9 конвейера. Любая ошибка до обновления продукта
// включительно приводит к FAILED; уведомления best-effort.
func (c *CompletionUseCase) runPipeline(ctx context.Context, job *domain.CompletionJob) (*CompletionResult, error) {
	const op = "CompletionUseCase.runPipeline"

	product, err := c.productRepo.GetByID(ctx, job.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product == nil {
		return nil, e.NewCompletionError(e.CodeProductNotFound, http.StatusNotFound, map[string]any{"product_id": job.ProductID})
	}

	user, err := c.userRepo.GetByID(ctx, product.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if user == nil {
		return nil, e.Wrap(op, fmt.Errorf("owner %d of product %d not found", product.UserID, product.ID))
	}

	cert, err := c.certRepo.GetByProductID(ctx, job.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Идемпотентный выход: сертификат уже выпущен — возвращаем существующий
	// результат без повторной генерации артефактов и повторных писем.
	// Статус продукта добиваем на случай сбоя прошлой попытки после записи
	// артефактов.
	if cert.Issued() {
		if product.Status != domain.ProductStatusCompleted {
			if err := c.productRepo.SetStatus(ctx, product.ID, domain.ProductStatusCompleted); err != nil {
				return nil, e.Wrap(op, err)
			}
		}
		return NewCompletionResult(cert.ID, *cert.SealNumber, c.verifyURL(*cert.SealNumber)), nil
	}

	// Заготовка фиксирует связь 1:1 до назначения печати, чтобы частичный сбой
	// не плодил сертификаты при повторах.
	if cert == nil {
		cert, err = c.certRepo.CreatePlaceholder(ctx, domain.NewCertificatePlaceholder(product.ID, uuid.NewString()))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	seal, err := c.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	verifyURL := c.verifyURL(seal)

	// Зависший рендер не должен держать воркер: каждый внешний шаг ограничен
	// таймаутом, просрочка уводит задание в FAILED как повторяемый сбой.
	renderCtx, cancelRender := context.WithTimeout(ctx, c.workerCfg.StepTimeout)
	artifacts, err := c.renderer.Render(renderCtx, NewRenderCertificateReq(product, user, seal, verifyURL))
	cancelRender()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	storeCtx, cancelStore := context.WithTimeout(ctx, c.workerCfg.StepTimeout)
	stored, err := c.storage.StoreArtifacts(storeCtx, NewStoreArtifactsReq(seal, artifacts.PDF, artifacts.QR))
	cancelStore()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Единственная запись в сертификат: печать и ключи появляются вместе и
	// только когда оба объекта уже лежат в хранилище.
	if err := c.certRepo.SetArtifacts(ctx, NewSetArtifactsReq(cert.ID, seal, stored.PdfKey, stored.QrKey)); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.recordAssets(ctx, cert.ID, artifacts, stored)

	if err := c.productRepo.SetStatus(ctx, product.ID, domain.ProductStatusCompleted); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.notify(ctx, user, product, seal, verifyURL, stored)
	c.publishIssued(ctx, product.ID, cert.ID, seal, verifyURL)
	c.invalidateVerifyCache(ctx, seal)

	return NewCompletionResult(cert.ID, seal, verifyURL), nil
}

// terminalCtx отвязывает запись терминального статуса от отмены вызывающего,
// ограничивая её собственным таймаутом шага.
func (c *CompletionUseCase) terminalCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.workerCfg.StepTimeout)
}

func (c *CompletionUseCase) verifyURL(sealNumber string) string {
	return fmt.Sprintf("%s/verify/%s", c.certCfg.BaseURL, sealNumber)
}

// recordAssets сохраняет записи Asset с контрольными суммами для трассировки.
// Сбой не критичен: канонические ключи уже записаны в сертификат.
func (c *CompletionUseCase) recordAssets(ctx context.Context, certID int64, artifacts *RenderedArtifacts, stored *StoredArtifacts) {
	assets := []*domain.Asset{
		domain.NewAsset(certID, domain.AssetRoleOfficialPDF, stored.PdfKey, checksum(artifacts.PDF)),
		domain.NewAsset(certID, domain.AssetRoleCertificateQR, stored.QrKey, checksum(artifacts.QR)),
	}

	for _, asset := range assets {
		if _, err := c.assetRepo.Create(ctx, asset); err != nil {
			c.logger.Warnf("failed to record %s asset for certificate %d: %v", asset.Role, certID, err)
		}
	}
}

// notify отправляет письмо о завершении. Любой сбой логируется и глотается:
// уведомление не входит в контракт корректности «продукт сертифицирован».
func (c *CompletionUseCase) notify(ctx context.Context, user *domain.User, product *domain.Product, seal, verifyURL string, stored *StoredArtifacts) {
	pdfURL, err := c.storage.SignArtifact(ctx, stored.PdfKey)
	if err != nil {
		c.logger.Warnf("failed to sign pdf url for %s: %v", seal, err)
	}

	qrURL, err := c.storage.SignArtifact(ctx, stored.QrKey)
	if err != nil {
		c.logger.Warnf("failed to sign qr url for %s: %v", seal, err)
	}

	req := &CompletionEmailReq{
		To:          user.Email,
		HolderName:  user.Name,
		ProductName: product.Name,
		SealNumber:  seal,
		VerifyURL:   verifyURL,
		PdfURL:      pdfURL,
		QrURL:       qrURL,
	}

	if err := c.notifier.SendCompletionEmail(ctx, req); err != nil {
		c.logger.Warnf("completion email to %s failed: %v", user.Email, err)
	}
}

func (c *CompletionUseCase) publishIssued(ctx context.Context, productID, certID int64, seal, verifyURL string) {
	event := &CertificateIssuedEvent{
		EventID:       uuid.NewString(),
		ProductID:     productID,
		CertificateID: certID,
		SealNumber:    seal,
		VerifyURL:     verifyURL,
		IssuedAt:      time.Now(),
	}

	if err := c.events.PublishCertificateIssued(ctx, event); err != nil {
		c.logger.Warnf("failed to publish certificate.issued for %s: %v", seal, err)
	}
}

func (c *CompletionUseCase) invalidateVerifyCache(ctx context.Context, seal string) {
	if err := c.cacheRepo.DeleteVerification(ctx, seal); err != nil {
		c.logger.Warnf("failed to invalidate verify cache for %s: %v", seal, err)
	}
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
