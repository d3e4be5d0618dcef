package repositories

import (
	"context"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// ConnectionRepository defines data access for the connection-request
// workflow. Requests are append-only: they are resolved in place and never
// deleted.
type ConnectionRepository interface {
	CreateRequest(ctx context.Context, request models.ConnectionRequest) error
	FindByID(ctx context.Context, id string) (models.ConnectionRequest, error)
	ListIncoming(ctx context.Context, userID string) ([]models.ConnectionView, error)
	ListOutgoing(ctx context.Context, userID string) ([]models.ConnectionView, error)
	SetOutcome(ctx context.Context, requestID string, accepted bool) error
}
