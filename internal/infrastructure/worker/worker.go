package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/jitter"
	"github.com/prodseal/go-backend/pkg/logger"
)

// CompletionWorker — фоновый драйвер очереди заданий завершения.
// Совмещает периодический опрос и LISTEN/NOTIFY: уведомление будит обработку
// сразу, тикер подбирает задания при потерянных уведомлениях.
// Сигнал остановки проверяется только между заданиями, начатое задание
// дорабатывает до конца.
type CompletionWorker struct {
	uc        usecase.CompletionUC
	logger    logger.Logger
	cfg       *cfg.WorkerCfg
	stop      chan struct{}
	wake      chan struct{}
	wg        sync.WaitGroup
	dbConnStr string
}

func NewCompletionWorker(
	uc usecase.CompletionUC,
	logger logger.Logger,
	cfg *cfg.WorkerCfg,
	dbConnStr string,
) *CompletionWorker {
	return &CompletionWorker{
		uc:        uc,
		logger:    logger,
		cfg:       cfg,
		stop:      make(chan struct{}),
		wake:      make(chan struct{}, 1),
		dbConnStr: dbConnStr,
	}
}

func (w *CompletionWorker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenPendingNotifications(ctx)
	}()
}

func (w *CompletionWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *CompletionWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending completion jobs on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Worker stopped by context cancellation")
			return
		case <-w.stop:
			w.logger.Infof("Worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		case <-w.wake:
			w.drain(ctx)
		}
	}
}

// drain обрабатывает PENDING-задания пакетами до опустошения очереди.
func (w *CompletionWorker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		batch, err := w.uc.ProcessBatch(ctx, w.cfg.BatchLimit)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			time.Sleep(jitter.Duration(time.Second, 0.5))
			return
		}

		if batch.Processed == 0 {
			return
		}
	}
}

func (w *CompletionWorker) listenPendingNotifications(ctx context.Context) {
	var conn *pgx.Conn
	var err error

	connect := func() error {
		conn, err = pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		_, err = conn.Exec(ctx, "LISTEN completion_pending")
		if err != nil {
			conn.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		w.logger.Infof("Subscribed to 'completion_pending' channel")
		return nil
	}

	if err := connect(); err != nil {
		w.logger.Warnf("Initial connect failed: %v", err)
		return
	}
	defer conn.Close(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
			ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
			notif, err := conn.WaitForNotification(ctxWithTimeout)
			cancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
				conn.Close(ctx)

				time.Sleep(jitter.Duration(2*time.Second, 0.5))
				if err := connect(); err != nil {
					w.logger.Warnf("Reconnect failed: %v", err)
					time.Sleep(5 * time.Second)
				}
				continue
			}

			if notif != nil && notif.Channel == "completion_pending" {
				w.logger.Debugf("Received completion notification, waking worker")
				w.notifyWake()
			}
		}
	}
}

// notifyWake толкает основной цикл без блокировки: одного сигнала достаточно,
// drain всё равно выгребает очередь целиком.
func (w *CompletionWorker) notifyWake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
