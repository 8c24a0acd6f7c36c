package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/veriscan/deepfake-detection-service/internal/application"
	"github.com/veriscan/deepfake-detection-service/internal/contracts"
	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

const maxUploadMemory = 32 << 20

// Handler is the HTTP adapter entrypoint for detection use-cases.
type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Deepfake Detection API running",
		"endpoints": map[string]string{
			"video_json":       "/api/predict-video",
			"image_json":       "/api/predict-image",
			"upload_frontend":  "/detection/upload",
			"status_frontend":  "/detection/status/{id}",
			"history_frontend": "/detection/history",
		},
	})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadFromRequest pulls the named multipart file plus its declared MIME
// category. The part Content-Type is the caller's declaration; the
// pipeline validates the category, decode failures catch lies.
func uploadFromRequest(r *http.Request, field string) (application.MediaUpload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return application.MediaUpload{}, nil, err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return application.MediaUpload{}, nil, err
	}
	upload := application.MediaUpload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, func() { _ = file.Close() }, nil
}

func (h *Handler) predictVideo(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, err := uploadFromRequest(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "expected multipart form with a 'file' part")
		return
	}
	defer closeFile()

	result, err := h.service.AnalyzeVideo(r.Context(), upload)
	if err != nil {
		status, code := mapDomainError(err)
		logOperationError(r.Context(), "predict_video", status, code, err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contracts.PredictionFrom(result))
}

func (h *Handler) predictImage(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, err := uploadFromRequest(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "expected multipart form with a 'file' part")
		return
	}
	defer closeFile()

	result, err := h.service.AnalyzeImage(r.Context(), upload)
	if err != nil {
		status, code := mapDomainError(err)
		logOperationError(r.Context(), "predict_image", status, code, err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contracts.PredictionFrom(result))
}

func (h *Handler) uploadDetection(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, err := uploadFromRequest(r, "video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "expected multipart form with a 'video' part")
		return
	}
	defer closeFile()

	job, err := h.service.SubmitDetection(r.Context(), upload, r.FormValue("filename"))
	if err != nil {
		status, code := mapDomainError(err)
		logOperationError(r.Context(), "upload_detection", status, code, err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, contracts.SubmitResponse{ID: job.ID, Status: string(domain.JobStatusProcessing)})
}

func (h *Handler) detectionStatus(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetDetection(r.Context(), chi.URLParam(r, "detection_id"))
	if err != nil {
		status, code := mapDomainError(err)
		logOperationError(r.Context(), "detection_status", status, code, err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contracts.SnapshotFrom(job))
}

func (h *Handler) detectionHistory(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListDetections(r.Context())
	if err != nil {
		status, code := mapDomainError(err)
		logOperationError(r.Context(), "detection_history", status, code, err)
		writeError(w, status, code, err.Error())
		return
	}
	snapshots := make([]contracts.DetectionSnapshot, 0, len(jobs))
	for _, job := range jobs {
		snapshots = append(snapshots, contracts.SnapshotFrom(job))
	}
	writeJSON(w, http.StatusOK, snapshots)
}
