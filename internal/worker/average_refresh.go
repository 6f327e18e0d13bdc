package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"explore_tours/pkg/logx"
)

const (
	TypeAverageRefresh = "tour:average:refresh"
	QueueDefault       = "default"

	refreshUniqueTTL = 5 * time.Second
	refreshTimeout   = 10 * time.Second
	refreshMaxRetry  = 3
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type averageRefreshPayload struct {
	TourID int64 `json:"tourId"`
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewAverageRefreshTask(tourID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(averageRefreshPayload{TourID: tourID})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeAverageRefresh, payload), nil
}

// AverageRefreshScheduler ставит задачи пересчёта в очередь. Запросы по одному
// туру в коротком окне схлопываются в одну задачу; тогда кэш остаётся пустым
// до следующего чтения.
type AverageRefreshScheduler struct {
	client taskEnqueuer
}

func NewAverageRefreshScheduler(client taskEnqueuer) *AverageRefreshScheduler {
	return &AverageRefreshScheduler{client: client}
}

func (s *AverageRefreshScheduler) ScheduleAverageRefresh(ctx context.Context, tourID int64) error {
	task, err := NewAverageRefreshTask(tourID)
	if err != nil {
		return err
	}

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(refreshMaxRetry),
		asynq.Timeout(refreshTimeout),
		asynq.Unique(refreshUniqueTTL),
	)
	if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return nil
}

type AverageRefresher interface {
	RefreshAverage(ctx context.Context, tourID int64) error
}

type AverageRefreshHandler struct {
	refresher AverageRefresher
}

func NewAverageRefreshHandler(refresher AverageRefresher) *AverageRefreshHandler {
	return &AverageRefreshHandler{refresher: refresher}
}

// Handle пересчитывает среднюю оценку тура. Удалённые туры и битый payload не ретраятся.
func (h *AverageRefreshHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var p averageRefreshPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal: %v: %w", err, asynq.SkipRetry) //nolint:errorlint
	}

	err := h.refresher.RefreshAverage(ctx, p.TourID)
	if failure.IsNotFoundError(err) {
		logger(ctx).Info("average refresh skipped, tour is gone", logx.FieldTourID, p.TourID)
		return nil
	}

	if err != nil {
		return fmt.Errorf("refresher.RefreshAverage: %w", err)
	}

	logger(ctx).Debug("average refreshed", logx.FieldTourID, p.TourID, logx.FieldTaskType, task.Type())

	return nil
}
