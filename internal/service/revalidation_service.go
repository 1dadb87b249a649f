package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/pkg/jobs"
)

// JobTypeRevalidate is the queue job type that clears the public cache.
const JobTypeRevalidate = "revalidate_public"

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// RevalidationService clears cached public listings after admin writes.
// Work goes through the background queue when one is attached and falls back
// to an inline invalidation when the queue refuses the job.
type RevalidationService struct {
	cache   *CacheService
	queue   jobQueue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRevalidationService constructs the service. queue may be nil.
func NewRevalidationService(cache *CacheService, metrics *MetricsService, logger *zap.Logger) *RevalidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevalidationService{cache: cache, metrics: metrics, logger: logger}
}

// AttachQueue routes future revalidations through q.
func (s *RevalidationService) AttachQueue(q jobQueue) {
	s.queue = q
}

// Revalidate schedules the invalidation of every public listing. reason is
// recorded for logs, usually "<entity>:<action>".
func (s *RevalidationService) Revalidate(ctx context.Context, reason string) {
	if s == nil || !s.cache.Enabled() {
		return
	}
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{Type: JobTypeRevalidate, Payload: reason})
		if err == nil {
			s.metrics.RecordRevalidation("queued")
			return
		}
		s.logger.Warn("revalidation queue refused job, clearing inline", zap.String("reason", reason), zap.Error(err))
	}
	s.metrics.RecordRevalidation("inline")
	if err := s.cache.Purge(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("inline revalidation failed", zap.String("reason", reason), zap.Error(err))
	}
}

// HandleJob is the queue handler for JobTypeRevalidate jobs.
func (s *RevalidationService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeRevalidate {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	if err := s.cache.Purge(ctx); err != nil {
		return err
	}
	s.logger.Debug("public cache revalidated", zap.String("job_id", job.ID), zap.Any("reason", job.Payload))
	return nil
}
