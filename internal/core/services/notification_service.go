package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type notificationService struct {
	repo     ports.NotificationRepository
	userRepo ports.UserRepository
	notifier ports.Notifier
}

// NewNotificationService stores notifications and, when a notifier is
// configured, delivers them out of band. Delivery is best effort.
func NewNotificationService(repo ports.NotificationRepository, userRepo ports.UserRepository, notifier ports.Notifier) ports.NotificationService {
	return &notificationService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Payload:   raw,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if s.notifier != nil {
		user, err := s.userRepo.GetByID(ctx, userID.String())
		if err != nil || user == nil {
			return nil
		}
		if err := s.notifier.Deliver(ctx, user, n); err != nil {
			log.Printf("failed to deliver notification %s: %v", n.ID, err)
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}
