package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"family_album/internal/logging"
	"family_album/internal/queue"
	"family_album/internal/repo"
	"family_album/internal/service"
)

// NotificationWorker drains the fan-out queue and writes notification
// rows. Fan-out happens off the upload request path so a slow insert
// for a large family never delays the uploader's response.
type NotificationWorker struct {
	RDB           *redis.Client
	Notifications *service.NotificationService
}

func New(rdb *redis.Client, repository *repo.GormRepo) *NotificationWorker {
	return &NotificationWorker{
		RDB:           rdb,
		Notifications: &service.NotificationService{Repo: repository},
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "worker.notifications")
	l.Info("notification worker started", "queue", queue.FanoutQueue)

	for {
		select {
		case <-ctx.Done():
			l.Info("notification worker stopping")
			return
		default:
			res, err := w.RDB.BRPop(ctx, 5*time.Second, queue.FanoutQueue).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				l.Error("brpop failed", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			// BRPop returns [queue, payload].
			if len(res) < 2 {
				continue
			}
			w.handle(ctx, l, []byte(res[1]))
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, l *slog.Logger, payload []byte) {
	var job queue.FanoutJob
	if err := json.Unmarshal(payload, &job); err != nil {
		l.Error("bad fanout job", "error", err)
		return
	}
	if err := w.Notifications.NotifyNewMedia(ctx, job.MediaID, job.UploaderID, job.UploaderName); err != nil {
		l.Error("fanout failed", "media_id", job.MediaID, "error", err)
	}
}
