package repository

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/google/uuid"
)

// FeeRuleRepository defines the interface for fee schedule data operations
type FeeRuleRepository interface {
	Create(ctx context.Context, rule *entity.FeeRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FeeRule, error)
	GetByCode(ctx context.Context, feeCode string) (*entity.FeeRule, error)
	// GetByCodes batch-fetches rules with overrides preloaded (avoids N+1
	// during fee calculation).
	GetByCodes(ctx context.Context, feeCodes []string) ([]entity.FeeRule, error)
	Update(ctx context.Context, rule *entity.FeeRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.FeeRule, error)
	// ListForClassification returns rules applicable to the classification:
	// global rules plus rules scoped to it.
	ListForClassification(ctx context.Context, classificationID uuid.UUID) ([]entity.FeeRule, error)

	// Override operations. Upserts key on (fee rule, target); aircraft- and
	// classification-scoped records are distinct targets.
	UpsertOverride(ctx context.Context, override *entity.FeeRuleOverride) error
	// BatchUpsertOverrides applies all upserts in a single transaction; one
	// failure rolls back the whole batch.
	BatchUpsertOverrides(ctx context.Context, overrides []entity.FeeRuleOverride) error
	DeleteOverride(ctx context.Context, id uuid.UUID) error
	ListOverridesForRule(ctx context.Context, feeRuleID uuid.UUID) ([]entity.FeeRuleOverride, error)
}
