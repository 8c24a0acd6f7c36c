package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// JobStore is the in-memory DetectionJobStore: a status cache, not a
// system of record. All jobs are lost on restart by design. List returns
// jobs in insertion order so enumeration is stable per snapshot.
type JobStore struct {
	mu      sync.RWMutex
	records map[string]domain.DetectionJob
	order   []string
}

func NewJobStore() *JobStore {
	return &JobStore{records: map[string]domain.DetectionJob{}, order: make([]string, 0, 64)}
}

func (s *JobStore) Create(_ context.Context, job domain.DetectionJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[job.ID]; exists {
		return domain.ErrDuplicateID
	}
	s.records[job.ID] = cloneJob(job)
	s.order = append(s.order, job.ID)
	return nil
}

func (s *JobStore) Complete(_ context.Context, id string, result domain.DetectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.records[id]
	if !exists {
		return domain.ErrNotFound
	}
	if job.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	job.Status = domain.JobStatusCompleted
	job.Result = cloneResult(result)
	job.ErrorDetail = ""
	s.records[id] = job
	return nil
}

func (s *JobStore) Fail(_ context.Context, id string, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.records[id]
	if !exists {
		return domain.ErrNotFound
	}
	if job.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	job.Status = domain.JobStatusFailed
	job.ErrorDetail = detail
	s.records[id] = job
	return nil
}

func (s *JobStore) Get(_ context.Context, id string) (domain.DetectionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.records[id]
	if !exists {
		return domain.DetectionJob{}, domain.ErrNotFound
	}
	return cloneJob(job), nil
}

func (s *JobStore) List(_ context.Context) ([]domain.DetectionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DetectionJob, 0, len(s.order))
	for _, id := range s.order {
		if job, exists := s.records[id]; exists {
			out = append(out, cloneJob(job))
		}
	}
	return out, nil
}

// cloneJob keeps stored records immutable from the outside: callers get
// copies, including the result slices.
func cloneJob(job domain.DetectionJob) domain.DetectionJob {
	if job.Result != nil {
		job.Result = cloneResult(*job.Result)
	}
	return job
}

func cloneResult(result domain.DetectionResult) *domain.DetectionResult {
	result.FrameScores = slices.Clone(result.FrameScores)
	result.Artifacts = slices.Clone(result.Artifacts)
	return &result
}
