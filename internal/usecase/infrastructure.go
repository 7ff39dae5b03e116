package usecase

import (
	"context"
	"time"
)

// ArtifactRepository — низкоуровневый доступ к объектному хранилищу.
type ArtifactRepository interface {
	Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type CertificateRenderer interface {
	Render(ctx context.Context, req *RenderCertificateReq) (*RenderedArtifacts, error)
}

type ArtifactStorage interface {
	// StoreArtifacts загружает PDF и QR; либо загружены оба, либо ни одного.
	StoreArtifacts(ctx context.Context, req *StoreArtifactsReq) (*StoredArtifacts, error)
	SignArtifact(ctx context.Context, objectKey string) (string, error)
}

// Notifier — best-effort почтовые уведомления: сбой отправки никогда не влияет
// на результат конвейера.
type Notifier interface {
	SendCompletionEmail(ctx context.Context, req *CompletionEmailReq) error
}

type EventProducer interface {
	PublishCertificateIssued(ctx context.Context, event *CertificateIssuedEvent) error
}
