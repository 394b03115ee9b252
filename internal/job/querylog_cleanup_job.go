package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/munirag/munirag/internal/repo"
)

// QueryLogCleanupJob drops query log rows older than the retention
// window so the analytics table does not grow without bound.
type QueryLogCleanupJob struct {
	querylogs *repo.QueryLogRepo
	retention time.Duration
}

func NewQueryLogCleanupJob(querylogs *repo.QueryLogRepo, retention time.Duration) *QueryLogCleanupJob {
	return &QueryLogCleanupJob{querylogs: querylogs, retention: retention}
}

func (j *QueryLogCleanupJob) Name() string {
	return "querylog_cleanup"
}

func (j *QueryLogCleanupJob) Run(ctx context.Context) error {
	if j.querylogs == nil {
		return nil
	}
	retention := j.retention
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	cutoff := time.Now().Add(-retention).UnixMilli()
	deleted, err := j.querylogs.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("query logs pruned", zap.Int64("deleted", deleted))
	}
	return nil
}
