package render

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/jitter"
	"github.com/prodseal/go-backend/pkg/logger"
)

// PooledRenderer ограничивает число одновременных генераций фиксированным
// пулом движков. Движок, заваливший генерацию или проверку здоровья,
// выбрасывается и заменяется свежим.
type PooledRenderer struct {
	engines    chan *engine
	maxRetries int
	logger     logger.Logger
	nextID     atomic.Int64
}

func NewPooledRenderer(size, maxRetries int, logger logger.Logger) *PooledRenderer {
	p := &PooledRenderer{
		engines:    make(chan *engine, size),
		maxRetries: maxRetries,
		logger:     logger,
	}

	for i := 0; i < size; i++ {
		p.engines <- newEngine(i)
	}
	p.nextID.Store(int64(size))

	return p
}

// Render генерирует артефакты сертификата с retry-логикой и экспоненциальной задержкой.
func (p *PooledRenderer) Render(ctx context.Context, req *usecase.RenderCertificateReq) (*usecase.RenderedArtifacts, error) {
	const (
		op         = "PooledRenderer.Render"
		baseJitter = 500 * time.Millisecond
		maxJitter  = 5 * time.Second
	)

	for attempt := 0; attempt < p.maxRetries; attempt++ {
		artifacts, err := p.renderOnce(ctx, req)
		if err == nil {
			return artifacts, nil
		}

		if attempt == p.maxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", p.maxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(baseJitter, maxJitter, attempt, jitter.DefaultJitter)

		p.logger.Warnf("certificate render failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

func (p *PooledRenderer) renderOnce(ctx context.Context, req *usecase.RenderCertificateReq) (*usecase.RenderedArtifacts, error) {
	en, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	if err := en.Ping(); err != nil {
		p.logger.Warnf("render engine %d unhealthy, replacing: %v", en.id, err)
		p.replace(en)
		return nil, err
	}

	artifacts, err := en.render(req)
	if err != nil {
		p.replace(en)
		return nil, err
	}

	p.engines <- en
	return artifacts, nil
}

func (p *PooledRenderer) acquire(ctx context.Context) (*engine, error) {
	select {
	case en := <-p.engines:
		return en, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// replace выбрасывает движок и возвращает в пул свежий, сохраняя ёмкость.
func (p *PooledRenderer) replace(old *engine) {
	p.engines <- newEngine(int(p.nextID.Add(1) - 1))
}
