package e

import (
	"fmt"
	"net/http"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrInvalidProductID = fmt.Errorf("invalid product id")
	ErrInvalidJobID     = fmt.Errorf("invalid job id")

	// 401 Unauthorized
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// 404 Not Found
	ErrSealNotFound = fmt.Errorf("seal number not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Коды типизированных ошибок конвейера завершения.
const (
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeJobNotFound         = "JOB_NOT_FOUND"
	CodeJobNotPending       = "JOB_NOT_PENDING"
	CodeAlreadyCompleted    = "ALREADY_COMPLETED"
	CodeAllocationExhausted = "ALLOCATION_EXHAUSTED"
	CodeInternal            = "INTERNAL"
)

// CompletionError — ошибка конвейера завершения, видимая вызывающей стороне.
// Code стабилен для клиентов, Payload несёт детали, HTTPStatus определяет ответ.
type CompletionError struct {
	Code       string
	HTTPStatus int
	Payload    map[string]any
	Err        error
}

func (c *CompletionError) Error() string {
	if c.Err != nil {
		return fmt.Sprintf("%s: %v", c.Code, c.Err)
	}
	return c.Code
}

func (c *CompletionError) Unwrap() error {
	return c.Err
}

func NewCompletionError(code string, httpStatus int, payload map[string]any) *CompletionError {
	return &CompletionError{
		Code:       code,
		HTTPStatus: httpStatus,
		Payload:    payload,
	}
}

// WrapInternal заворачивает неожиданную ошибку конвейера в типизированную с кодом INTERNAL.
func WrapInternal(err error) *CompletionError {
	return &CompletionError{
		Code:       CodeInternal,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
