package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prodseal/go-backend/pkg/e"
)

// ErrorResponse — тело ошибки API. Code стабилен для клиентов,
// Details несут машиночитаемый контекст типизированных ошибок конвейера.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewErrorResponse(code, message string, details map[string]any) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ToHTTPResponse сопоставляет ошибку с HTTP-статусом и телом ответа.
// Типизированные ошибки конвейера несут статус сами; остальные сводятся к
// известным sentinel-ошибкам или к 500 без утечки внутренних деталей.
func ToHTTPResponse(err error) (int, *ErrorResponse) {
	var ce *e.CompletionError
	if errors.As(err, &ce) {
		msg := ce.Code
		if ce.Code == e.CodeInternal {
			msg = e.ErrInternalServerError.Error()
		}
		return ce.HTTPStatus, NewErrorResponse(ce.Code, msg, ce.Payload)
	}

	switch {
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, NewErrorResponse("BAD_REQUEST", e.ErrInvalidProductID.Error(), nil)
	case errors.Is(err, e.ErrInvalidJobID):
		return http.StatusBadRequest, NewErrorResponse("BAD_REQUEST", e.ErrInvalidJobID.Error(), nil)
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, NewErrorResponse("BAD_REQUEST", e.ErrStatusBadRequest.Error(), nil)
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, NewErrorResponse("UNAUTHORIZED", e.ErrUnauthorized.Error(), nil)
	case errors.Is(err, e.ErrSealNotFound):
		return http.StatusNotFound, NewErrorResponse("SEAL_NOT_FOUND", e.ErrSealNotFound.Error(), nil)
	default:
		return http.StatusInternalServerError, NewErrorResponse(e.CodeInternal, e.ErrInternalServerError.Error(), nil)
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, body := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseProductID разбирает положительный числовой ID продукта из пути.
func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidProductID
	}

	return id, nil
}

// parseJobID проверяет, что ID задания — валидный UUID.
func parseJobID(raw string) (string, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", e.ErrInvalidJobID
	}

	return raw, nil
}

// errBadRequest привязывает произвольную ошибку разбора к sentinel 400.
func errBadRequest(err error) error {
	return e.Wrap(err.Error(), e.ErrStatusBadRequest)
}

// checkBearerToken сверяет Authorization: Bearer с ожидаемым токеном.
// Сравнение за константное время; пустой ожидаемый токен закрывает эндпоинт.
func checkBearerToken(r *http.Request, expected string) error {
	if expected == "" {
		return e.ErrUnauthorized
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return e.ErrUnauthorized
	}

	return nil
}
