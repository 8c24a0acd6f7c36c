package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the detection routes and middleware stack. The
// legacy /api shapes and the /detection frontend shapes share the same
// pipeline underneath.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/", handler.root)
	r.Get("/healthz", handler.healthz)

	r.Post("/api/predict-video", handler.predictVideo)
	r.Post("/api/predict-image", handler.predictImage)

	r.Route("/detection", func(r chi.Router) {
		r.Post("/upload", handler.uploadDetection)
		r.Get("/status/{detection_id}", handler.detectionStatus)
		r.Get("/history", handler.detectionHistory)
	})

	return r
}
