package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	r "github.com/redis/go-redis/v9"

	"github.com/jimlawless/whereami"
	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/repository/redis/converter"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/clients"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
)

// CacheRepo кэширует ответы верификации по номеру печати.
// Кэш строго best-effort: промах и недоступность Redis неразличимы для
// вызывающего кода.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.VerificationConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.VerificationConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetVerification возвращает закэшированные данные верификации или nil на промахе.
func (r *CacheRepo) GetVerification(ctx context.Context, sealNumber string) (*usecase.VerificationInfo, error) {
	data, err := r.client.Client.Get(ctx, r.verifyKey(sealNumber)).Bytes()
	if isCacheMiss(err) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.VerificationRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		r.dropKey(sealNumber)
		return nil, nil
	}

	// Повреждённая или чужая запись трактуется как промах и вычищается.
	if model.SealNumber != sealNumber {
		r.logger.Warnf("Cache seal mismatch: key: %s, model: %s", sealNumber, model.SealNumber)
		r.dropKey(sealNumber)
		return nil, nil
	}

	return r.conv.ToUseCase(&model), nil
}

// SetVerification кэширует данные верификации с настроенным TTL.
func (r *CacheRepo) SetVerification(ctx context.Context, info *usecase.VerificationInfo) error {
	data, err := json.Marshal(r.conv.ToRedisModel(info))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, r.verifyKey(info.SealNumber), data, r.cfg.VerifyTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteVerification удаляет запись верификации из кэша.
func (r *CacheRepo) DeleteVerification(ctx context.Context, sealNumber string) error {
	if err := r.client.Client.Del(ctx, r.verifyKey(sealNumber)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *CacheRepo) dropKey(sealNumber string) {
	if err := r.client.Client.Del(context.Background(), r.verifyKey(sealNumber)).Err(); err != nil {
		r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (r *CacheRepo) verifyKey(sealNumber string) string {
	return fmt.Sprintf("verify:%s", sealNumber)
}

func isCacheMiss(err error) bool {
	return errors.Is(err, r.Nil)
}
