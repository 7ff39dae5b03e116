package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/jitter"
	"github.com/prodseal/go-backend/pkg/logger"
)

const (
	pdfContentType = "application/pdf"
	qrContentType  = "image/png"

	cleanupAttempts = 3
)

// ArtifactStorage загружает артефакты сертификата парой: при сбое второй
// загрузки первый объект вычищается в фоне, полузагруженного состояния для
// вызывающего кода не существует.
type ArtifactStorage struct {
	repo        usecase.ArtifactRepository
	certCfg     *cfg.CertCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewArtifactStorage(repo usecase.ArtifactRepository, certCfg *cfg.CertCfg,
	logger logger.Logger, shutdownCtx context.Context) *ArtifactStorage {
	return &ArtifactStorage{
		repo:        repo,
		certCfg:     certCfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
	}
}

// StoreArtifacts загружает PDF и QR под детерминированными ключами печати.
// Либо загружены оба, либо ни одного.
func (s *ArtifactStorage) StoreArtifacts(ctx context.Context, req *usecase.StoreArtifactsReq) (*usecase.StoredArtifacts, error) {
	const op = "ArtifactStorage.StoreArtifacts"

	pdfKey, err := s.repo.Upload(ctx, s.pdfKey(req.SealNumber), pdfContentType, req.PDF)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("pdf upload failed: %w", err))
	}

	qrKey, err := s.repo.Upload(ctx, s.qrKey(req.SealNumber), qrContentType, req.QR)
	if err != nil {
		s.wg.Add(1)
		go s.cleanupUploadedKeys([]string{pdfKey})

		return nil, e.Wrap(op, fmt.Errorf("qr upload failed: %w", err))
	}

	return usecase.NewStoredArtifacts(pdfKey, qrKey), nil
}

// SignArtifact возвращает временную подписанную ссылку на артефакт.
func (s *ArtifactStorage) SignArtifact(ctx context.Context, objectKey string) (string, error) {
	const op = "ArtifactStorage.SignArtifact"

	url, err := s.repo.PresignedGet(ctx, objectKey, s.certCfg.SignTTL)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return url, nil
}

// cleanupUploadedKeys удаляет осиротевшие объекты с повторами и джиттером.
func (s *ArtifactStorage) cleanupUploadedKeys(keys []string) {
	defer s.wg.Done()
	const op = "ArtifactStorage.cleanupUploadedKeys"
	s.logger.Infof("%s: Cleaning up uploaded keys", op)

	ctx, cancel := context.WithTimeout(s.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			if err := s.repo.Delete(ctx, key); err == nil {
				break
			}

			select {
			case <-ctx.Done():
				s.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			case <-time.After(jitter.ExponentialBackoff(time.Second, 10*time.Second, attempt, jitter.DefaultJitter)):
			}
		}
	}
}

// WaitForCleanup ожидает завершения фоновых очисток при остановке приложения.
func (s *ArtifactStorage) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("artifact cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func (s *ArtifactStorage) pdfKey(sealNumber string) string {
	return fmt.Sprintf("certificates/%s/certificate.pdf", sealNumber)
}

func (s *ArtifactStorage) qrKey(sealNumber string) string {
	return fmt.Sprintf("certificates/%s/qr.png", sealNumber)
}
