package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// Notifier delivers a stored notification out of band (e.g. a chat
// message). Delivery failures must not fail the triggering operation.
type Notifier interface {
	Deliver(ctx context.Context, user *domain.User, n *domain.Notification) error
}

type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, payload any) error
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}
