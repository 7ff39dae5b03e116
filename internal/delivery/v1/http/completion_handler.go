package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/logger"
)

type CompletionHandler struct {
	completionUsecase usecase.CompletionUC
	workerCfg         *cfg.WorkerCfg
	logger            logger.Logger
}

func NewCompletionHandler(completionUsecase usecase.CompletionUC, workerCfg *cfg.WorkerCfg, logger logger.Logger) *CompletionHandler {
	return &CompletionHandler{completionUsecase: completionUsecase, workerCfg: workerCfg, logger: logger}
}

type jobResponse struct {
	JobID     string     `json:"job_id"`
	ProductID int64      `json:"product_id"`
	Status    string     `json:"status"`
	Attempts  int        `json:"attempts"`
	LastError *string    `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func newJobResponse(job *domain.CompletionJob) *jobResponse {
	return &jobResponse{
		JobID:     job.ID,
		ProductID: job.ProductID,
		Status:    string(job.Status),
		Attempts:  job.Attempts,
		LastError: job.LastError,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

type runRequest struct {
	Limit int `json:"limit"`
}

// enqueueCompletion
//
//	@Summary		Постановка задания завершения сертификации
//	@Description	Создает задание завершения для продукта или переиспользует активное
//	@Tags			completion
//	@Produce		json
//	@Param			id	path		int				true	"ID продукта"
//	@Success		202	{object}	jobResponse		"Задание создано"
//	@Success		200	{object}	jobResponse		"Переиспользовано активное задание"
//	@Failure		404	{object}	ErrorResponse	"Продукт не найден"
//	@Failure		409	{object}	ErrorResponse	"Продукт уже сертифицирован"
//	@Router			/products/{id}/completion [post]
func (c *CompletionHandler) enqueueCompletion(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		c.logger.Warnf("%d enqueue: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := c.completionUsecase.Enqueue(r.Context(), productID)
	if err != nil {
		c.logger.Warnf("enqueue product %d: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	status := http.StatusAccepted
	if res.Reused {
		status = http.StatusOK
	}

	WriteSuccess(w, status, newJobResponse(res.Job))
}

// processJob
//
//	@Summary		Синхронная обработка задания завершения
//	@Description	Выполняет конвейер завершения для одного задания
//	@Tags			completion
//	@Produce		json
//	@Param			id	path		string					true	"ID задания (UUID)"
//	@Success		200	{object}	map[string]interface{}	"Сертификат выпущен"
//	@Failure		404	{object}	ErrorResponse			"Задание не найдено"
//	@Failure		409	{object}	ErrorResponse			"Задание не в PENDING"
//	@Router			/completion/jobs/{id}/process [post]
func (c *CompletionHandler) processJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := parseJobID(chi.URLParam(r, "id"))
	if err != nil {
		c.logger.Warnf("%d process: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := c.completionUsecase.ProcessJob(r.Context(), jobID)
	if err != nil {
		c.logger.Warnf("process job %s: %s", jobID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"certificate_id": res.CertificateID,
		"seal_number":    res.SealNumber,
		"verify_url":     res.VerifyURL,
	})
}

// runBatch
//
//	@Summary		Пакетная обработка заданий завершения
//	@Description	Обрабатывает до limit старейших PENDING-заданий; вызывается по cron
//	@Tags			completion
//	@Accept			json
//	@Produce		json
//	@Param			request	body		runRequest				false	"Размер пакета"
//	@Success		200		{object}	map[string]interface{}	"Сводка обработки"
//	@Failure		401		{object}	ErrorResponse			"Неверный токен"
//	@Security		BearerAuth
//	@Router			/completion/run [post]
func (c *CompletionHandler) runBatch(w http.ResponseWriter, r *http.Request) {
	if err := checkBearerToken(r, c.workerCfg.CronToken); err != nil {
		c.logger.Warnf("%d run: %s", http.StatusUnauthorized, err.Error())
		WriteError(w, err)
		return
	}

	var req runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			c.logger.Warnf("%d run: invalid body: %s", http.StatusBadRequest, err.Error())
			WriteError(w, errBadRequest(err))
			return
		}
	}

	batch, err := c.completionUsecase.ProcessBatch(r.Context(), req.Limit)
	if err != nil {
		c.logger.Warnf("run batch: %s", err.Error())
		WriteError(w, err)
		return
	}

	results := make([]map[string]interface{}, 0, len(batch.Results))
	for _, res := range batch.Results {
		item := map[string]interface{}{
			"job_id":     res.JobID,
			"product_id": res.ProductID,
			"ok":         res.OK,
		}
		if res.Error != "" {
			item["error"] = res.Error
		}
		results = append(results, item)
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"processed": batch.Processed,
		"results":   results,
	})
}

// getJob
//
//	@Summary		Статус задания завершения
//	@Tags			completion
//	@Produce		json
//	@Param			id	path		string			true	"ID задания (UUID)"
//	@Success		200	{object}	jobResponse		"Задание"
//	@Failure		404	{object}	ErrorResponse	"Задание не найдено"
//	@Router			/completion/jobs/{id} [get]
func (c *CompletionHandler) getJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := parseJobID(chi.URLParam(r, "id"))
	if err != nil {
		c.logger.Warnf("%d get job: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	job, err := c.completionUsecase.GetJob(r.Context(), jobID)
	if err != nil {
		c.logger.Warnf("get job %s: %s", jobID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newJobResponse(job))
}
