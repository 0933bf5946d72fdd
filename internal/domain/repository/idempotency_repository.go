package repository

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository stores responses recorded against an
// Idempotency-Key header so retried mutations replay instead of
// re-executing.
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
