package usecase

import (
	"context"

	"github.com/prodseal/go-backend/internal/domain"
)

type CompletionUC interface {
	Enqueue(ctx context.Context, productID int64) (*EnqueueRes, error)
	ProcessJob(ctx context.Context, jobID string) (*CompletionResult, error)
	ProcessBatch(ctx context.Context, limit int) (*BatchResult, error)
	GetJob(ctx context.Context, jobID string) (*domain.CompletionJob, error)
}

type VerifyUC interface {
	Verify(ctx context.Context, sealNumber string) (*VerificationRes, error)
}
