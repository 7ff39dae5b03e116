package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// completionUCStub отдаёт заранее заданные размеры пакетов по одному на вызов;
// после исчерпания списка очередь считается пустой.
type completionUCStub struct {
	mu      sync.Mutex
	batches []int
	calls   int
	err     error
}

func (s *completionUCStub) ProcessBatch(ctx context.Context, limit int) (*usecase.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	processed := 0
	if len(s.batches) > 0 {
		processed = s.batches[0]
		s.batches = s.batches[1:]
	}

	return usecase.NewBatchResult(make([]usecase.JobResult, processed)), nil
}

func (s *completionUCStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *completionUCStub) Enqueue(ctx context.Context, productID int64) (*usecase.EnqueueRes, error) {
	return nil, nil
}

func (s *completionUCStub) ProcessJob(ctx context.Context, jobID string) (*usecase.CompletionResult, error) {
	return nil, nil
}

func (s *completionUCStub) GetJob(ctx context.Context, jobID string) (*domain.CompletionJob, error) {
	return nil, nil
}

func newTestWorker(uc usecase.CompletionUC) *CompletionWorker {
	workerCfg := &cfg.WorkerCfg{
		PollInterval: time.Hour, // тикер не должен срабатывать в тестах
		BatchLimit:   3,
		BatchMax:     10,
		StepTimeout:  5 * time.Second,
	}
	return NewCompletionWorker(uc, nopLogger{}, workerCfg, "")
}

func TestCompletionWorker_Drain(t *testing.T) {
	t.Run("drains queue until empty", func(t *testing.T) {
		stub := &completionUCStub{batches: []int{3, 1}}
		w := newTestWorker(stub)

		w.drain(context.Background())

		assert.Equal(t, 3, stub.callCount())
	})

	t.Run("stop signal is observed between batches", func(t *testing.T) {
		stub := &completionUCStub{batches: []int{3, 3, 3}}
		w := newTestWorker(stub)
		close(w.stop)

		w.drain(context.Background())

		assert.Zero(t, stub.callCount())
	})

	t.Run("cancelled context stops the drain", func(t *testing.T) {
		stub := &completionUCStub{batches: []int{3}}
		w := newTestWorker(stub)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		w.drain(ctx)

		assert.Zero(t, stub.callCount())
	})

	t.Run("batch error backs off and returns", func(t *testing.T) {
		stub := &completionUCStub{err: errors.New("db down")}
		w := newTestWorker(stub)

		w.drain(context.Background())

		assert.Equal(t, 1, stub.callCount())
	})
}

func TestCompletionWorker_Run(t *testing.T) {
	t.Run("stops cleanly between iterations", func(t *testing.T) {
		stub := &completionUCStub{}
		w := newTestWorker(stub)

		done := make(chan struct{})
		go func() {
			w.run(context.Background())
			close(done)
		}()

		// Стартовый прогон пустой очереди делает ровно один вызов.
		require.Eventually(t, func() bool { return stub.callCount() == 1 }, time.Second, 10*time.Millisecond)

		close(w.stop)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
		assert.Equal(t, 1, stub.callCount())
	})

	t.Run("notification wakes the loop before the poll tick", func(t *testing.T) {
		stub := &completionUCStub{batches: []int{0, 2}}
		w := newTestWorker(stub)

		done := make(chan struct{})
		go func() {
			w.run(context.Background())
			close(done)
		}()

		require.Eventually(t, func() bool { return stub.callCount() == 1 }, time.Second, 10*time.Millisecond)

		w.notifyWake()

		// Пробуждение выгребает очередь: непустой пакет и затем пустой.
		require.Eventually(t, func() bool { return stub.callCount() == 3 }, time.Second, 10*time.Millisecond)

		close(w.stop)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	})
}

func TestCompletionWorker_NotifyWake(t *testing.T) {
	t.Run("coalesces repeated notifications", func(t *testing.T) {
		w := newTestWorker(&completionUCStub{})

		w.notifyWake()
		w.notifyWake()
		w.notifyWake()

		assert.Len(t, w.wake, 1)
	})
}
