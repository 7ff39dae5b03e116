package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
)

type VerifyHandler struct {
	verifyUsecase usecase.VerifyUC
	logger        logger.Logger
}

func NewVerifyHandler(verifyUsecase usecase.VerifyUC, logger logger.Logger) *VerifyHandler {
	return &VerifyHandler{verifyUsecase: verifyUsecase, logger: logger}
}

type verifyResponse struct {
	SealNumber  string    `json:"seal_number"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	HolderName  string    `json:"holder_name"`
	Status      string    `json:"status"`
	IssuedAt    time.Time `json:"issued_at"`
	PdfURL      string    `json:"pdf_url,omitempty"`
	QrURL       string    `json:"qr_url,omitempty"`
}

// verifySeal
//
//	@Summary		Публичная верификация сертификата по номеру печати
//	@Tags			verify
//	@Produce		json
//	@Param			seal	path		string			true	"Номер печати"
//	@Success		200		{object}	verifyResponse	"Данные сертификата"
//	@Failure		404		{object}	ErrorResponse	"Печать не найдена"
//	@Router			/verify/{seal} [get]
func (v *VerifyHandler) verifySeal(w http.ResponseWriter, r *http.Request) {
	seal := chi.URLParam(r, "seal")
	if seal == "" {
		v.logger.Warnf("%d verify: empty seal", http.StatusNotFound)
		WriteError(w, e.ErrSealNotFound)
		return
	}

	res, err := v.verifyUsecase.Verify(r.Context(), seal)
	if err != nil {
		v.logger.Warnf("verify %s: %s", seal, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &verifyResponse{
		SealNumber:  res.Info.SealNumber,
		ProductName: res.Info.ProductName,
		Brand:       res.Info.Brand,
		HolderName:  res.Info.HolderName,
		Status:      res.Info.Status,
		IssuedAt:    res.Info.IssuedAt,
		PdfURL:      res.PdfURL,
		QrURL:       res.QrURL,
	})
}
