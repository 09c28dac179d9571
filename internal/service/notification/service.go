package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/sse"
)

// Config holds notification worker tuning.
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.NotificationRepository
	hub    *sse.Hub
	logger *slog.Logger
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService starts the background workers that drain the
// queue into batched inserts and live SSE pushes.
func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub, logger *slog.Logger, cfg Config) notification.NotificationService {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		logger: logger,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	logger.Info("notification workers started",
		slog.Int("workers", cfg.WorkerCount),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Duration("flush_interval", cfg.FlushInterval),
	)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entities := make([]notification.Notification, len(batch))
		for i, req := range batch {
			entities[i] = notification.Notification{
				ID:        uuid.New().String(),
				UserID:    req.UserID,
				Type:      req.Type,
				Title:     req.Title,
				Message:   req.Message,
				Link:      req.Link,
				Read:      false,
				CreatedAt: time.Now().UTC(),
			}
		}

		if err := s.repo.CreateBatch(ctx, entities); err != nil {
			s.logger.Error("notification batch insert failed",
				slog.Int("worker", id),
				slog.Int("count", len(entities)),
				slog.Any("error", err),
			)
			batch = batch[:0]
			return
		}

		for _, n := range entities {
			s.hub.Publish(n.UserID, sse.Event{
				UserID: n.UserID,
				Event:  "notification",
				Data:   notification.ToResponse(n),
			})
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			flush()
			return
		}
	}
}

// Enqueue schedules one notification without blocking the caller. When
// the queue is full the notification is dropped with a warning rather
// than stalling the request path.
func (s *service) Enqueue(req notification.CreateNotificationRequest) {
	select {
	case s.queue <- req:
	default:
		s.logger.Warn("dropping notification",
			slog.String("user_id", req.UserID),
			slog.String("type", string(req.Type)),
			slog.Any("error", notification.ErrQueueFull),
		)
	}
}

func (s *service) EnqueueMany(userIDs []string, typ notification.NotificationType, title, message string, link *string) {
	for _, id := range userIDs {
		s.Enqueue(notification.CreateNotificationRequest{
			UserID:  id,
			Type:    typ,
			Title:   title,
			Message: message,
			Link:    link,
		})
	}
}

func (s *service) List(ctx context.Context, filter notification.ListFilter) (notification.ListResponse, error) {
	filter.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return notification.ListResponse{}, err
	}
	unread, err := s.repo.CountUnread(ctx, filter.UserID)
	if err != nil {
		return notification.ListResponse{}, err
	}

	responses := make([]notification.NotificationResponse, len(items))
	for i, n := range items {
		responses[i] = notification.ToResponse(n)
	}

	return notification.ListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          filter.Page,
		PerPage:       filter.PerPage,
	}, nil
}

func (s *service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return notification.ErrNotRecipient
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return notification.ErrNotRecipient
	}
	return s.repo.Delete(ctx, id)
}

// Stop signals the workers, waits for a final flush and returns.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
