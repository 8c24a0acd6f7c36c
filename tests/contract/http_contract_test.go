package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/veriscan/deepfake-detection-service/internal/adapters/engine"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/events"
	httpadapter "github.com/veriscan/deepfake-detection-service/internal/adapters/http"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/media"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/memory"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/storage"
	"github.com/veriscan/deepfake-detection-service/internal/application"
	"github.com/veriscan/deepfake-detection-service/internal/contracts"
)

type harness struct {
	router  http.Handler
	service *application.Service
}

func newHarness(t *testing.T, decoder *media.SyntheticDecoder) *harness {
	t.Helper()
	spool, err := storage.NewTempSpool(t.TempDir())
	if err != nil {
		t.Fatalf("new spool: %v", err)
	}
	service := application.NewService(application.Dependencies{
		Config: application.Config{InputSize: 8},
		Store:  memory.NewJobStore(),
		Queue:  events.NewMemoryJobQueue(),
		Spool:  spool,
		Videos: decoder,
		Images: media.NewImageDecoder(),
		Engine: engine.NewStub(nil),
	})
	handler := httpadapter.NewHandler(service)
	return &harness{router: httpadapter.NewRouter(handler), service: service}
}

func multipartBody(t *testing.T, field, filename, contentType string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func (h *harness) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{})
	rec := h.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeInto(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestPredictVideoContract(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{FrameCount: 10, FrameRate: 10, Width: 8, Height: 8, Fill: 204})
	body, contentType := multipartBody(t, "file", "clip.mp4", "video/mp4", []byte("payload"), nil)

	rec := h.do(t, http.MethodPost, "/api/predict-video", body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var prediction contracts.PredictionResponse
	decodeInto(t, rec, &prediction)
	if prediction.Label != "Fake" {
		t.Fatalf("expected label Fake, got %s", prediction.Label)
	}
	if prediction.TotalFramesAnalyzed != 5 || len(prediction.FrameScores) != 5 {
		t.Fatalf("expected 5 analyzed frames, got total=%d scores=%d", prediction.TotalFramesAnalyzed, len(prediction.FrameScores))
	}
	if prediction.FakeScore <= prediction.RealScore {
		t.Fatalf("bright frames should lean fake: fake=%f real=%f", prediction.FakeScore, prediction.RealScore)
	}
}

func TestPredictVideoRejectsWrongMIME(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{FrameCount: 10, FrameRate: 10, Width: 8, Height: 8})
	body, contentType := multipartBody(t, "file", "notes.txt", "text/plain", []byte("payload"), nil)

	rec := h.do(t, http.MethodPost, "/api/predict-video", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errBody contracts.ErrorResponse
	decodeInto(t, rec, &errBody)
	if errBody.Status != "error" || errBody.Code != "INVALID_INPUT" {
		t.Fatalf("unexpected error body: %+v", errBody)
	}
}

func TestPredictVideoRejectsMissingPart(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{})
	body, contentType := multipartBody(t, "wrong_field", "clip.mp4", "video/mp4", []byte("payload"), nil)

	rec := h.do(t, http.MethodPost, "/api/predict-video", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPredictImageContract(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{})
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 26, G: 26, B: 26, A: 255})
		}
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	body, contentType := multipartBody(t, "file", "still.png", "image/png", encoded.Bytes(), nil)

	rec := h.do(t, http.MethodPost, "/api/predict-image", body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var prediction contracts.PredictionResponse
	decodeInto(t, rec, &prediction)
	if prediction.TotalFramesAnalyzed != 1 || len(prediction.FrameScores) != 1 {
		t.Fatalf("expected a single analyzed frame, got %+v", prediction)
	}
	if prediction.Label != "Real" {
		t.Fatalf("expected label Real for a dark image, got %s", prediction.Label)
	}
}

func TestDetectionLifecycle(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{FrameCount: 60, FrameRate: 30, Width: 8, Height: 8, Fill: 204})
	body, contentType := multipartBody(t, "video", "suspect.mp4", "video/mp4", []byte("payload"), map[string]string{"filename": "suspect clip"})

	rec := h.do(t, http.MethodPost, "/detection/upload", body, contentType)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var submitted contracts.SubmitResponse
	decodeInto(t, rec, &submitted)
	if submitted.ID == "" || submitted.Status != "processing" {
		t.Fatalf("unexpected submit response: %+v", submitted)
	}

	rec = h.do(t, http.MethodGet, "/detection/status/"+submitted.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var pending contracts.DetectionSnapshot
	decodeInto(t, rec, &pending)
	if pending.Status != "processing" || pending.ModelName == "" {
		t.Fatalf("unexpected pending snapshot: %+v", pending)
	}
	if len(pending.PerFrameScores) != 0 || len(pending.Artifacts) != 0 {
		t.Fatalf("pending snapshot should carry empty score fields: %+v", pending)
	}

	if err := h.service.ProcessNextJob(context.Background()); err != nil {
		t.Fatalf("process job: %v", err)
	}

	rec = h.do(t, http.MethodGet, "/detection/status/"+submitted.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var done contracts.DetectionSnapshot
	decodeInto(t, rec, &done)
	if done.Status != "completed" || done.Verdict != "Synthetic" {
		t.Fatalf("unexpected completed snapshot: %+v", done)
	}
	if done.TotalFrames != 30 || len(done.PerFrameScores) != 30 {
		t.Fatalf("expected 30 sampled frames, got %+v", done)
	}
	if len(done.Artifacts) == 0 || done.OverallScore < 70 {
		t.Fatalf("completed snapshot missing verdict payload: %+v", done)
	}

	rec = h.do(t, http.MethodGet, "/detection/history", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var history []contracts.DetectionSnapshot
	decodeInto(t, rec, &history)
	if len(history) != 1 || history[0].ID != submitted.ID {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestDetectionStatusUnknownID(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{})
	rec := h.do(t, http.MethodGet, "/detection/status/00000000-0000-0000-0000-000000000000", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var errBody contracts.ErrorResponse
	decodeInto(t, rec, &errBody)
	if errBody.Code != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %+v", errBody)
	}
}

func TestUploadDetectionRejectsImagePart(t *testing.T) {
	h := newHarness(t, &media.SyntheticDecoder{})
	body, contentType := multipartBody(t, "video", "still.png", "image/png", []byte("payload"), nil)

	rec := h.do(t, http.MethodPost, "/detection/upload", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errBody contracts.ErrorResponse
	decodeInto(t, rec, &errBody)
	if errBody.Code != "INVALID_INPUT" {
		t.Fatalf("unexpected error body: %+v", errBody)
	}
}
