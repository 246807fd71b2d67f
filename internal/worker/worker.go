package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zippyhand/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskUpsert       = "upsert"
	TaskDelete       = "delete"
	TaskUpdateStatus = "update_status"
)

// Task is one unit of spreadsheet work.
type Task struct {
	Type       string          `json:"type"`
	BookingID  int64           `json:"booking_id"`
	Booking    *models.Booking `json:"booking,omitempty"`
	Status     string          `json:"status,omitempty"`
	RetryCount int             `json:"retry_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SheetsClient is the spreadsheet mirror the worker drives.
type SheetsClient interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
	DeleteBookingRow(ctx context.Context, bookingID int64) error
}

// SheetsWorker consumes mirror tasks from a redis list, falling back to an
// in-memory queue when redis is unavailable. Mirroring is best-effort: the
// booking flow never waits on it.
type SheetsWorker struct {
	sheets        SheetsClient
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan Task
	redisQueueKey string
	deadLetterKey string
	logger        *zerolog.Logger
}

func NewSheetsWorker(sheets SheetsClient, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsWorker{
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan Task, models.WorkerQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		logger:        logger,
	}
}

// EnqueueUpsert schedules a full-row mirror for a booking.
func (w *SheetsWorker) EnqueueUpsert(ctx context.Context, booking *models.Booking) error {
	if booking == nil || booking.ID == 0 {
		return errors.New("booking id is required")
	}
	return w.enqueue(ctx, Task{
		Type:      TaskUpsert,
		BookingID: booking.ID,
		Booking:   booking,
		CreatedAt: time.Now(),
	})
}

// EnqueueStatus schedules a status-cell update.
func (w *SheetsWorker) EnqueueStatus(ctx context.Context, bookingID int64, status string) error {
	if bookingID == 0 || status == "" {
		return errors.New("booking id and status are required")
	}
	return w.enqueue(ctx, Task{
		Type:      TaskUpdateStatus,
		BookingID: bookingID,
		Status:    status,
		CreatedAt: time.Now(),
	})
}

// EnqueueDelete schedules a row removal.
func (w *SheetsWorker) EnqueueDelete(ctx context.Context, bookingID int64) error {
	if bookingID == 0 {
		return errors.New("booking id is required")
	}
	return w.enqueue(ctx, Task{
		Type:      TaskDelete,
		BookingID: bookingID,
		CreatedAt: time.Now(),
	})
}

func (w *SheetsWorker) enqueue(ctx context.Context, task Task) error {
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return errors.New("worker queue is full")
	}
}

// Run consumes tasks until ctx is done.
func (w *SheetsWorker) Run(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
			continue
		default:
		}

		if task, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, task)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
		case <-time.After(time.Second):
		}
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (Task, bool) {
	if w.redis == nil {
		return Task{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Task{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return Task{}, false
	}
	if len(res) != 2 {
		return Task{}, false
	}
	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task")
		return Task{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task Task) {
	if err := w.handleTask(ctx, task); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}
	w.logger.Debug().Str("type", task.Type).Int64("booking_id", task.BookingID).Msg("mirror task applied")
}

func (w *SheetsWorker) handleTask(ctx context.Context, task Task) error {
	switch task.Type {
	case TaskUpsert:
		if task.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sheets.UpsertBooking(ctx, task.Booking)
	case TaskUpdateStatus:
		if task.BookingID == 0 || task.Status == "" {
			return errors.New("booking id or status missing")
		}
		return w.sheets.UpdateBookingStatus(ctx, task.BookingID, task.Status)
	case TaskDelete:
		if task.BookingID == 0 {
			return errors.New("booking id missing")
		}
		return w.sheets.DeleteBookingRow(ctx, task.BookingID)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task Task, cause error) {
	task.RetryCount++
	if task.RetryCount >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).Str("type", task.Type).Int64("booking_id", task.BookingID).Msg("mirror task failed permanently")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.RetryCount)
	w.logger.Warn().Err(cause).
		Str("type", task.Type).
		Int64("booking_id", task.BookingID).
		Int("attempt", task.RetryCount).
		Dur("delay", delay).
		Msg("mirror task retry scheduled")

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			if err := w.enqueue(ctx, task); err != nil {
				w.logger.Error().Err(err).Int64("booking_id", task.BookingID).Msg("requeue failed")
			}
		}
	}()
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task Task) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("deadletter push failed")
	}
}
