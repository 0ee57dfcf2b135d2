package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vesna-erp/vesna-erp/internal/assets"
	"github.com/vesna-erp/vesna-erp/internal/observability"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAssetsPostDue posts every depreciation entry whose date has passed.
	TaskAssetsPostDue = "assets:post_due"
)

// PostDuePayload describes one scheduled posting run.
type PostDuePayload struct {
	AsOf  string `json:"as_of,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// NewAssetsPostDueTask constructs an Asynq task for the nightly posting run.
// An empty AsOf means "post everything due as of task execution time".
func NewAssetsPostDueTask(payload PostDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssetsPostDue, data), nil
}

// PostDueJob posts due depreciation entries on a schedule.
type PostDueJob struct {
	service *assets.Service
	logger  *slog.Logger
	metrics *observability.Metrics
	limit   int
}

// NewPostDueJob constructs the handler for TaskAssetsPostDue.
func NewPostDueJob(service *assets.Service, logger *slog.Logger, metrics *observability.Metrics, limit int) *PostDueJob {
	if limit <= 0 {
		limit = 500
	}
	return &PostDueJob{service: service, logger: logger, metrics: metrics, limit: limit}
}

// Handle processes one TaskAssetsPostDue task.
func (j *PostDueJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PostDuePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	asOf := time.Now().UTC()
	if payload.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}
	limit := j.limit
	if payload.Limit > 0 {
		limit = payload.Limit
	}

	posted, err := j.service.PostDueMoves(ctx, asOf, limit)
	if err != nil {
		j.logger.Error("post due depreciation entries", slog.Any("error", err), slog.Int("posted", posted))
		return err
	}
	if j.metrics != nil {
		j.metrics.CountEntriesPosted("batch", posted)
	}
	j.logger.Info("posted due depreciation entries",
		slog.Int("posted", posted),
		slog.Time("as_of", asOf),
	)
	return nil
}
