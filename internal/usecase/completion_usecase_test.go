package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJobID     = "a2a3be6e-6f4e-4a50-a195-4f8ce5dc6ad6"
	testProductID = int64(7)
	testUserID    = int64(3)
	testCertID    = int64(42)
)

type ucFixture struct {
	productRepo *productRepoMock
	userRepo    *userRepoMock
	certRepo    *certRepoMock
	jobRepo     *jobRepoMock
	assetRepo   *assetRepoMock
	cacheRepo   *cacheRepoMock
	renderer    *rendererMock
	storage     *storageMock
	notifier    *notifierMock
	producer    *producerMock
	uc          *CompletionUseCase
}

// newFixture собирает движок с хэппи-пасс заглушками: PENDING-задание,
// продукт в IN_REVIEW без сертификата, все внешние вызовы успешны.
func newFixture() *ucFixture {
	f := &ucFixture{
		productRepo: &productRepoMock{},
		userRepo:    &userRepoMock{},
		certRepo:    &certRepoMock{},
		jobRepo:     &jobRepoMock{},
		assetRepo:   &assetRepoMock{},
		cacheRepo:   &cacheRepoMock{},
		renderer:    &rendererMock{},
		storage:     &storageMock{},
		notifier:    &notifierMock{},
		producer:    &producerMock{},
	}

	f.productRepo.getByID = func(ctx context.Context, id int64) (*domain.Product, error) {
		return &domain.Product{
			ID:     testProductID,
			UserID: testUserID,
			Name:   "Solar Kettle",
			Brand:  "SunWare",
			Status: domain.ProductStatusInReview,
		}, nil
	}
	f.userRepo.getByID = func(ctx context.Context, id int64) (*domain.User, error) {
		return &domain.User{ID: testUserID, Email: "owner@example.com", Name: "Dana"}, nil
	}
	f.certRepo.getByProductID = func(ctx context.Context, productID int64) (*domain.Certificate, error) {
		return nil, nil
	}
	f.certRepo.createPlaceholder = func(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error) {
		out := *cert
		out.ID = testCertID
		return &out, nil
	}
	f.certRepo.sealNumberExists = func(ctx context.Context, sealNumber string) (bool, error) {
		return false, nil
	}
	f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
		return pendingJob(testJobID, testProductID), nil
	}
	f.jobRepo.claim = func(ctx context.Context, id string) (bool, error) {
		return true, nil
	}

	certCfg := &cfg.CertCfg{
		BaseURL:    "https://prodseal.example",
		SealPrefix: "PS",
		SignTTL:    time.Hour,
	}
	workerCfg := &cfg.WorkerCfg{
		PollInterval: time.Second,
		BatchLimit:   3,
		BatchMax:     10,
		StepTimeout:  5 * time.Second,
		RenderPool:   1,
	}

	allocator := NewSealAllocator(f.certRepo, certCfg.SealPrefix, nopLogger{})
	f.uc = NewCompletionUC(
		f.productRepo, f.userRepo, f.certRepo, f.jobRepo, f.assetRepo, f.cacheRepo,
		allocator, f.renderer, f.storage, f.notifier, f.producer,
		certCfg, workerCfg, nopLogger{},
	)

	return f
}

func completionErrCode(t *testing.T, err error) *e.CompletionError {
	t.Helper()
	var ce *e.CompletionError
	require.True(t, errors.As(err, &ce), "expected CompletionError, got %v", err)
	return ce
}

func TestCompletionUseCase_ProcessJob(t *testing.T) {
	t.Run("happy path issues certificate and finishes job", func(t *testing.T) {
		f := newFixture()

		res, err := f.uc.ProcessJob(context.Background(), testJobID)

		require.NoError(t, err)
		assert.Equal(t, testCertID, res.CertificateID)
		assert.Regexp(t, sealPattern, res.SealNumber)
		assert.Equal(t, "https://prodseal.example/verify/"+res.SealNumber, res.VerifyURL)

		require.Len(t, f.certRepo.setArtifactsCalls, 1)
		written := f.certRepo.setArtifactsCalls[0]
		assert.Equal(t, res.SealNumber, written.SealNumber)
		assert.NotEmpty(t, written.PdfKey)
		assert.NotEmpty(t, written.QrKey)

		assert.Equal(t, []domain.ProductStatus{domain.ProductStatusCompleted}, f.productRepo.statusCalls)
		assert.Equal(t, []string{testJobID}, f.jobRepo.doneCalls)
		assert.Empty(t, f.jobRepo.failedCalls)

		require.Len(t, f.assetRepo.created, 2)
		assert.Equal(t, domain.AssetRoleOfficialPDF, f.assetRepo.created[0].Role)
		assert.Equal(t, domain.AssetRoleCertificateQR, f.assetRepo.created[1].Role)
		assert.NotEmpty(t, f.assetRepo.created[0].Checksum)

		require.Len(t, f.notifier.calls, 1)
		assert.Equal(t, "owner@example.com", f.notifier.calls[0].To)
		assert.Equal(t, res.SealNumber, f.notifier.calls[0].SealNumber)

		require.Len(t, f.producer.events, 1)
		assert.Equal(t, testProductID, f.producer.events[0].ProductID)

		assert.Equal(t, []string{res.SealNumber}, f.cacheRepo.deleted)
	})

	t.Run("issued certificate short-circuits without side effects", func(t *testing.T) {
		f := newFixture()
		f.productRepo.getByID = func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: testProductID, UserID: testUserID, Status: domain.ProductStatusCompleted}, nil
		}
		f.certRepo.getByProductID = func(ctx context.Context, productID int64) (*domain.Certificate, error) {
			return &domain.Certificate{
				ID:         testCertID,
				ProductID:  testProductID,
				SealNumber: strPtr("PS-2026-AB12CD"),
				PdfKey:     strPtr("certificates/PS-2026-AB12CD/certificate.pdf"),
				QrKey:      strPtr("certificates/PS-2026-AB12CD/qr.png"),
				Status:     domain.CertificateStatusIssued,
			}, nil
		}

		res, err := f.uc.ProcessJob(context.Background(), testJobID)

		require.NoError(t, err)
		assert.Equal(t, "PS-2026-AB12CD", res.SealNumber)
		assert.Equal(t, []string{testJobID}, f.jobRepo.doneCalls)

		assert.Zero(t, f.renderer.calls)
		assert.Zero(t, f.storage.storeCalls)
		assert.Empty(t, f.certRepo.setArtifactsCalls)
		assert.Empty(t, f.notifier.calls)
		assert.Empty(t, f.productRepo.statusCalls)
	})

	t.Run("short-circuit repairs product status left behind", func(t *testing.T) {
		f := newFixture()
		f.certRepo.getByProductID = func(ctx context.Context, productID int64) (*domain.Certificate, error) {
			return &domain.Certificate{
				ID:         testCertID,
				ProductID:  testProductID,
				SealNumber: strPtr("PS-2026-AB12CD"),
				PdfKey:     strPtr("certificates/PS-2026-AB12CD/certificate.pdf"),
				Status:     domain.CertificateStatusIssued,
			}, nil
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		require.NoError(t, err)
		assert.Equal(t, []domain.ProductStatus{domain.ProductStatusCompleted}, f.productRepo.statusCalls)
		assert.Zero(t, f.renderer.calls)
	})

	t.Run("upload failure leaves certificate untouched and fails job", func(t *testing.T) {
		f := newFixture()
		f.storage.store = func(ctx context.Context, req *StoreArtifactsReq) (*StoredArtifacts, error) {
			return nil, errors.New("qr upload failed: connection reset")
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		require.Error(t, err)
		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeInternal, ce.Code)

		assert.Empty(t, f.certRepo.setArtifactsCalls)
		assert.Empty(t, f.productRepo.statusCalls)
		assert.Empty(t, f.jobRepo.doneCalls)
		require.Contains(t, f.jobRepo.failedCalls, testJobID)
		assert.Contains(t, f.jobRepo.failedCalls[testJobID], "connection reset")
	})

	t.Run("notifier failure does not fail the job", func(t *testing.T) {
		f := newFixture()
		f.notifier.err = errors.New("smtp: 451 temporary failure")

		res, err := f.uc.ProcessJob(context.Background(), testJobID)

		require.NoError(t, err)
		assert.NotEmpty(t, res.SealNumber)
		assert.Equal(t, []string{testJobID}, f.jobRepo.doneCalls)
		assert.Empty(t, f.jobRepo.failedCalls)
	})

	t.Run("producer and cache failures are swallowed", func(t *testing.T) {
		f := newFixture()
		f.producer.err = errors.New("broker not available")
		f.cacheRepo.delErr = errors.New("redis down")

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		require.NoError(t, err)
		assert.Equal(t, []string{testJobID}, f.jobRepo.doneCalls)
	})

	t.Run("lost claim returns JOB_NOT_PENDING without side effects", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
			job := pendingJob(testJobID, testProductID)
			job.Status = domain.JobStatusProcessing
			return job, nil
		}
		f.jobRepo.claim = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeJobNotPending, ce.Code)
		assert.Equal(t, http.StatusConflict, ce.HTTPStatus)
		assert.Equal(t, testJobID, ce.Payload["job_id"])
		assert.Equal(t, "PROCESSING", ce.Payload["status"])

		assert.Zero(t, f.renderer.calls)
		assert.Empty(t, f.jobRepo.doneCalls)
		assert.Empty(t, f.jobRepo.failedCalls)
	})

	t.Run("unknown job returns JOB_NOT_FOUND", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
			return nil, nil
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeJobNotFound, ce.Code)
		assert.Equal(t, http.StatusNotFound, ce.HTTPStatus)
	})

	t.Run("missing product inside claimed pipeline marks job failed", func(t *testing.T) {
		f := newFixture()
		f.productRepo.getByID = func(ctx context.Context, id int64) (*domain.Product, error) {
			return nil, nil
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeProductNotFound, ce.Code)
		require.Contains(t, f.jobRepo.failedCalls, testJobID)
		assert.Empty(t, f.jobRepo.doneCalls)
	})

	t.Run("caller cancellation mid-render still persists FAILED", func(t *testing.T) {
		f := newFixture()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f.renderer.render = func(renderCtx context.Context, req *RenderCertificateReq) (*RenderedArtifacts, error) {
			cancel() // клиент оборвал запрос во время рендера
			<-renderCtx.Done()
			return nil, renderCtx.Err()
		}
		var failedCtxErr error
		f.jobRepo.markFailed = func(ctx context.Context, id, cause string) error {
			failedCtxErr = ctx.Err()
			return failedCtxErr
		}

		_, err := f.uc.ProcessJob(ctx, testJobID)

		require.Error(t, err)
		require.Contains(t, f.jobRepo.failedCalls, testJobID)
		assert.NoError(t, failedCtxErr, "terminal transition must not inherit caller cancellation")
		assert.Empty(t, f.jobRepo.doneCalls)
	})

	t.Run("caller cancellation after pipeline still persists DONE", func(t *testing.T) {
		f := newFixture()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f.productRepo.setStatus = func(ctx context.Context, id int64, status domain.ProductStatus) error {
			cancel()
			return nil
		}
		var doneCtxErr error
		f.jobRepo.markDone = func(ctx context.Context, id string) error {
			doneCtxErr = ctx.Err()
			return doneCtxErr
		}

		res, err := f.uc.ProcessJob(ctx, testJobID)

		require.NoError(t, err)
		assert.NotEmpty(t, res.SealNumber)
		assert.NoError(t, doneCtxErr, "terminal transition must not inherit caller cancellation")
		assert.Equal(t, []string{testJobID}, f.jobRepo.doneCalls)
	})

	t.Run("terminal job is rejected before claim", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
			job := pendingJob(testJobID, testProductID)
			job.Status = domain.JobStatusFailed
			return job, nil
		}
		claimCalled := false
		f.jobRepo.claim = func(ctx context.Context, id string) (bool, error) {
			claimCalled = true
			return false, nil
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeJobNotPending, ce.Code)
		assert.Equal(t, "FAILED", ce.Payload["status"])
		assert.False(t, claimCalled)
		assert.Empty(t, f.jobRepo.failedCalls)
	})

	t.Run("seal exhaustion fails the job with typed error", func(t *testing.T) {
		f := newFixture()
		f.certRepo.sealNumberExists = func(ctx context.Context, sealNumber string) (bool, error) {
			return true, nil
		}

		_, err := f.uc.ProcessJob(context.Background(), testJobID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeAllocationExhausted, ce.Code)
		require.Contains(t, f.jobRepo.failedCalls, testJobID)
		assert.Zero(t, f.renderer.calls)
	})
}

func TestCompletionUseCase_Enqueue(t *testing.T) {
	t.Run("creates job for eligible product", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.createOrReuse = func(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error) {
			return pendingJob(testJobID, productID), false, nil
		}

		res, err := f.uc.Enqueue(context.Background(), testProductID)

		require.NoError(t, err)
		assert.False(t, res.Reused)
		assert.Equal(t, testJobID, res.Job.ID)
	})

	t.Run("reuses active job", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.createOrReuse = func(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error) {
			return pendingJob(testJobID, productID), true, nil
		}

		res, err := f.uc.Enqueue(context.Background(), testProductID)

		require.NoError(t, err)
		assert.True(t, res.Reused)
	})

	t.Run("unknown product returns PRODUCT_NOT_FOUND", func(t *testing.T) {
		f := newFixture()
		f.productRepo.getByID = func(ctx context.Context, id int64) (*domain.Product, error) {
			return nil, nil
		}

		_, err := f.uc.Enqueue(context.Background(), testProductID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeProductNotFound, ce.Code)
		assert.Equal(t, http.StatusNotFound, ce.HTTPStatus)
	})

	t.Run("completed product returns ALREADY_COMPLETED", func(t *testing.T) {
		f := newFixture()
		f.productRepo.getByID = func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: testProductID, Status: domain.ProductStatusCompleted}, nil
		}

		_, err := f.uc.Enqueue(context.Background(), testProductID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeAlreadyCompleted, ce.Code)
		assert.Equal(t, http.StatusConflict, ce.HTTPStatus)
	})
}

func TestCompletionUseCase_ProcessBatch(t *testing.T) {
	t.Run("failure of one job does not abort the batch", func(t *testing.T) {
		f := newFixture()

		jobs := []*domain.CompletionJob{
			pendingJob("11111111-1111-1111-1111-111111111111", 1),
			pendingJob("22222222-2222-2222-2222-222222222222", 2),
			pendingJob("33333333-3333-3333-3333-333333333333", 3),
		}
		f.jobRepo.listOldestPending = func(ctx context.Context, limit int) ([]*domain.CompletionJob, error) {
			return jobs, nil
		}
		f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
			for _, job := range jobs {
				if job.ID == id {
					return job, nil
				}
			}
			return nil, nil
		}
		f.productRepo.getByID = func(ctx context.Context, id int64) (*domain.Product, error) {
			if id == 2 {
				return nil, nil // продукт среднего задания исчез
			}
			return &domain.Product{ID: id, UserID: testUserID, Status: domain.ProductStatusInReview}, nil
		}

		batch, err := f.uc.ProcessBatch(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, 3, batch.Processed)
		require.Len(t, batch.Results, 3)

		assert.True(t, batch.Results[0].OK)
		assert.False(t, batch.Results[1].OK)
		assert.Contains(t, batch.Results[1].Error, e.CodeProductNotFound)
		assert.True(t, batch.Results[2].OK)
	})

	t.Run("zero limit falls back to configured default", func(t *testing.T) {
		f := newFixture()
		var gotLimit int
		f.jobRepo.listOldestPending = func(ctx context.Context, limit int) ([]*domain.CompletionJob, error) {
			gotLimit = limit
			return nil, nil
		}

		batch, err := f.uc.ProcessBatch(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, 3, gotLimit)
		assert.Zero(t, batch.Processed)
	})

	t.Run("limit above cap is clamped", func(t *testing.T) {
		f := newFixture()
		var gotLimit int
		f.jobRepo.listOldestPending = func(ctx context.Context, limit int) ([]*domain.CompletionJob, error) {
			gotLimit = limit
			return nil, nil
		}

		_, err := f.uc.ProcessBatch(context.Background(), 50)

		require.NoError(t, err)
		assert.Equal(t, 10, gotLimit)
	})
}

func TestCompletionUseCase_GetJob(t *testing.T) {
	t.Run("returns stored job", func(t *testing.T) {
		f := newFixture()
		stored := pendingJob(testJobID, testProductID)
		stored.Attempts = 2
		stored.LastError = strPtr("render timeout")
		f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
			return stored, nil
		}

		job, err := f.uc.GetJob(context.Background(), testJobID)

		require.NoError(t, err)
		assert.Equal(t, 2, job.Attempts)
		assert.Equal(t, "render timeout", *job.LastError)
	})

	t.Run("unknown job returns JOB_NOT_FOUND", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.getByID = func(ctx context.Context, id string) (*domain.CompletionJob, error) {
			return nil, nil
		}

		_, err := f.uc.GetJob(context.Background(), testJobID)

		ce := completionErrCode(t, err)
		assert.Equal(t, e.CodeJobNotFound, ce.Code)
	})
}
