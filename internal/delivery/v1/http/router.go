package http

import (
	"github.com/go-chi/chi/v5"
	_ "github.com/prodseal/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/prodseal/go-backend/internal/cfg"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(completionUC usecase.CompletionUC, verifyUC usecase.VerifyUC, workerCfg *cfg.WorkerCfg) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		completionHandler := NewCompletionHandler(completionUC, workerCfg, r.logger)
		verifyHandler := NewVerifyHandler(verifyUC, r.logger)

		registerCompletionRoutes(v1, completionHandler)
		registerVerifyRoutes(v1, verifyHandler)
	})
}

func registerCompletionRoutes(router chi.Router, h *CompletionHandler) {
	router.Post("/products/{id}/completion", h.enqueueCompletion)

	router.Route("/completion", func(cr chi.Router) {
		cr.Post("/run", h.runBatch)
		cr.Route("/jobs/{id}", func(jr chi.Router) {
			jr.Get("/", h.getJob)
			jr.Post("/process", h.processJob)
		})
	})
}

func registerVerifyRoutes(router chi.Router, h *VerifyHandler) {
	router.Get("/verify/{seal}", h.verifySeal)
}
