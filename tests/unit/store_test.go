package unit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/veriscan/deepfake-detection-service/internal/adapters/memory"
	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

func processingJob(id string) domain.DetectionJob {
	return domain.DetectionJob{
		ID:          id,
		DisplayName: "clip " + id,
		ModelName:   "Enhanced CNN (10k images)",
		Status:      domain.JobStatusProcessing,
		MIMEType:    "video/mp4",
		CreatedAt:   time.Now().UTC(),
	}
}

func sampleResult() domain.DetectionResult {
	return domain.DetectionResult{
		Label:        domain.LabelFake,
		Verdict:      domain.VerdictSynthetic,
		FakeScore:    0.82,
		RealScore:    0.18,
		OverallScore: 82,
		Confidence:   82,
		FrameScores:  []float64{0.8, 0.84},
		TotalFrames:  2,
		Artifacts:    domain.ArtifactsFor(domain.VerdictSynthetic),
	}
}

func TestJobStoreCreateAndGet(t *testing.T) {
	store := memory.NewJobStore()
	ctx := context.Background()

	if err := store.Create(ctx, processingJob("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	job, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != domain.JobStatusProcessing || job.Result != nil {
		t.Fatalf("unexpected fresh job state: %+v", job)
	}

	if err := store.Create(ctx, processingJob("a")); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected duplicate id, got %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobStoreSingleTerminalTransition(t *testing.T) {
	store := memory.NewJobStore()
	ctx := context.Background()

	if err := store.Create(ctx, processingJob("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Complete(ctx, "a", sampleResult()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.Complete(ctx, "a", sampleResult()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second complete should be rejected, got %v", err)
	}
	if err := store.Fail(ctx, "a", "late failure"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("fail after complete should be rejected, got %v", err)
	}

	job, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != domain.JobStatusCompleted || job.Result == nil || job.ErrorDetail != "" {
		t.Fatalf("terminal state corrupted: %+v", job)
	}

	if err := store.Complete(ctx, "missing", sampleResult()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Fail(ctx, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobStoreFailRecordsDetail(t *testing.T) {
	store := memory.NewJobStore()
	ctx := context.Background()

	if err := store.Create(ctx, processingJob("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Fail(ctx, "a", "decode exploded"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	job, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != domain.JobStatusFailed || job.ErrorDetail != "decode exploded" || job.Result != nil {
		t.Fatalf("unexpected failed state: %+v", job)
	}
}

func TestJobStoreListPreservesInsertionOrder(t *testing.T) {
	store := memory.NewJobStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Create(ctx, processingJob(fmt.Sprintf("job-%d", i))); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 5 {
		t.Fatalf("expected 5 jobs, got %d", len(jobs))
	}
	for i, job := range jobs {
		if job.ID != fmt.Sprintf("job-%d", i) {
			t.Fatalf("position %d holds %s", i, job.ID)
		}
	}
}

func TestJobStoreSnapshotsAreIsolated(t *testing.T) {
	store := memory.NewJobStore()
	ctx := context.Background()

	if err := store.Create(ctx, processingJob("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Complete(ctx, "a", sampleResult()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	first, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Result.FrameScores[0] = -1
	first.Result.Artifacts[0] = "tampered"

	second, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if second.Result.FrameScores[0] != 0.8 || second.Result.Artifacts[0] == "tampered" {
		t.Fatal("stored record leaked through the returned snapshot")
	}
}

func TestJobStoreConcurrentCreates(t *testing.T) {
	store := memory.NewJobStore()
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Create(ctx, processingJob(fmt.Sprintf("job-%d", i)))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != n {
		t.Fatalf("expected %d jobs, got %d", n, len(jobs))
	}
	for i := 0; i < n; i++ {
		if _, err := store.Get(ctx, fmt.Sprintf("job-%d", i)); err != nil {
			t.Fatalf("get job-%d: %v", i, err)
		}
	}
}
