package usecase

import (
	"context"
	"time"

	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
)

// VerifyUseCase — публичная верификация сертификата по номеру печати.
type VerifyUseCase struct {
	certRepo  CertificateRepository
	cacheRepo VerifyCacheRepository
	storage   ArtifactStorage
	logger    logger.Logger
}

func NewVerifyUC(
	certRepo CertificateRepository,
	cacheRepo VerifyCacheRepository,
	storage ArtifactStorage,
	logger logger.Logger,
) *VerifyUseCase {
	return &VerifyUseCase{
		certRepo:  certRepo,
		cacheRepo: cacheRepo,
		storage:   storage,
		logger:    logger,
	}
}

// Verify возвращает данные сертификата по номеру печати.
// Кэш best-effort: его недоступность трактуется как промах, запись в кэш
// выполняется в фоне и не задерживает ответ.
func (v *VerifyUseCase) Verify(ctx context.Context, sealNumber string) (*VerificationRes, error) {
	const op = "VerifyUseCase.Verify"

	info, err := v.cacheRepo.GetVerification(ctx, sealNumber)
	if err != nil {
		v.logger.Warnf("verify cache lookup for %s failed: %v", sealNumber, err)
	}

	if info == nil {
		info, err = v.certRepo.GetVerification(ctx, sealNumber)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if info == nil {
			return nil, e.ErrSealNotFound
		}

		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := v.cacheRepo.SetVerification(cacheCtx, info); err != nil {
				v.logger.Warnf("failed to cache verification for %s: %v", sealNumber, err)
			}
		}()
	}

	pdfURL, err := v.storage.SignArtifact(ctx, info.PdfKey)
	if err != nil {
		v.logger.Warnf("failed to sign pdf url for %s: %v", sealNumber, err)
	}

	qrURL, err := v.storage.SignArtifact(ctx, info.QrKey)
	if err != nil {
		v.logger.Warnf("failed to sign qr url for %s: %v", sealNumber, err)
	}

	return NewVerificationRes(info, pdfURL, qrURL), nil
}
