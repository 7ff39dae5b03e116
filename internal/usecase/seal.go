package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
)

const (
	sealAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sealSuffixLen = 6

	// maxSealAttempts — бюджет попыток при коллизиях. Вероятность коллизии на
	// выбранном алфавите ничтожна, но исчерпание бюджета обязано завершаться
	// фатально: дубликат печати ломает верификацию для конечных пользователей.
	maxSealAttempts = 5
)

// SealAllocator выдаёт глобально уникальные человекочитаемые номера печатей
// вида PS-<год>-<6 символов>. Проверка занятости перед записью — только
// оптимизация; источником истины остаётся уникальное ограничение БД.
type SealAllocator struct {
	certRepo CertificateRepository
	prefix   string
	logger   logger.Logger
	now      func() time.Time
}

func NewSealAllocator(certRepo CertificateRepository, prefix string, logger logger.Logger) *SealAllocator {
	return &SealAllocator{
		certRepo: certRepo,
		prefix:   prefix,
		logger:   logger,
		now:      time.Now,
	}
}

// Allocate возвращает свободный номер печати или типизированную ошибку
// ALLOCATION_EXHAUSTED после исчерпания бюджета попыток.
func (a *SealAllocator) Allocate(ctx context.Context) (string, error) {
	const op = "SealAllocator.Allocate"

	for attempt := 0; attempt < maxSealAttempts; attempt++ {
		candidate, err := a.generate()
		if err != nil {
			return "", e.Wrap(op, err)
		}

		exists, err := a.certRepo.SealNumberExists(ctx, candidate)
		if err != nil {
			return "", e.Wrap(op, err)
		}
		if !exists {
			return candidate, nil
		}

		a.logger.Warnf("seal number collision on %s (attempt %d)", candidate, attempt+1)
	}

	return "", e.NewCompletionError(
		e.CodeAllocationExhausted,
		http.StatusInternalServerError,
		map[string]any{"attempts": maxSealAttempts},
	)
}

func (a *SealAllocator) generate() (string, error) {
	suffix := make([]byte, sealSuffixLen)
	alphabetLen := big.NewInt(int64(len(sealAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		suffix[i] = sealAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%d-%s", a.prefix, a.now().Year(), suffix), nil
}
