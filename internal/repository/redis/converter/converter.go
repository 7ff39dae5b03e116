//go:generate goverter gen github.com/prodseal/go-backend/internal/repository/redis/converter
package converter

import "github.com/prodseal/go-backend/internal/usecase"

// VerificationConverter преобразует данные верификации между usecase и Redis-моделью.
// goverter:converter
type VerificationConverter interface {
	ToRedisModel(info *usecase.VerificationInfo) *VerificationRedisModel
	ToUseCase(model *VerificationRedisModel) *usecase.VerificationInfo
}
