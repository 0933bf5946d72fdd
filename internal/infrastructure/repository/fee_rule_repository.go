package repository

import (
	"context"
	"errors"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	domainRepo "github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type feeRuleRepository struct {
	db *gorm.DB
}

// NewFeeRuleRepository creates a new fee rule repository
func NewFeeRuleRepository(db *gorm.DB) domainRepo.FeeRuleRepository {
	return &feeRuleRepository{db: db}
}

func (r *feeRuleRepository) Create(ctx context.Context, rule *entity.FeeRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *feeRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FeeRule, error) {
	var rule entity.FeeRule
	err := r.db.WithContext(ctx).
		Preload("Overrides").
		First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rule, err
}

func (r *feeRuleRepository) GetByCode(ctx context.Context, feeCode string) (*entity.FeeRule, error) {
	var rule entity.FeeRule
	err := r.db.WithContext(ctx).
		Preload("Overrides").
		First(&rule, "fee_code = ?", feeCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rule, err
}

func (r *feeRuleRepository) GetByCodes(ctx context.Context, feeCodes []string) ([]entity.FeeRule, error) {
	var rules []entity.FeeRule
	err := r.db.WithContext(ctx).
		Preload("Overrides").
		Where("fee_code IN ?", feeCodes).
		Find(&rules).Error
	return rules, err
}

func (r *feeRuleRepository) Update(ctx context.Context, rule *entity.FeeRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *feeRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fee_rule_id = ?", id).Delete(&entity.FeeRuleOverride{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.FeeRule{}, "id = ?", id).Error
	})
}

func (r *feeRuleRepository) List(ctx context.Context) ([]entity.FeeRule, error) {
	var rules []entity.FeeRule
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Preload("Overrides").
		Order("fee_code ASC").
		Find(&rules).Error
	return rules, err
}

func (r *feeRuleRepository) ListForClassification(ctx context.Context, classificationID uuid.UUID) ([]entity.FeeRule, error) {
	var rules []entity.FeeRule
	err := r.db.WithContext(ctx).
		Preload("Overrides").
		Where("classification_id IS NULL OR classification_id = ?", classificationID).
		Order("fee_code ASC").
		Find(&rules).Error
	return rules, err
}

// overrideConflict keys the upsert on (rule, target) so repeated submits from
// the fee-schedule editors update in place instead of accumulating rows. The
// conflict target must name the partial unique index matching the override's
// scope: Postgres treats NULLs as distinct, so a target spanning both scope
// columns would never match an existing row.
func overrideConflict(override *entity.FeeRuleOverride) clause.OnConflict {
	target := []clause.Column{{Name: "fee_rule_id"}, {Name: "classification_id"}}
	targetWhere := "aircraft_type_id IS NULL"
	if override.AircraftTypeID != nil {
		target = []clause.Column{{Name: "fee_rule_id"}, {Name: "aircraft_type_id"}}
		targetWhere = "classification_id IS NULL"
	}
	return clause.OnConflict{
		Columns:     target,
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: targetWhere}}},
		DoUpdates:   clause.AssignmentColumns([]string{"override_amount", "updated_at"}),
	}
}

func (r *feeRuleRepository) UpsertOverride(ctx context.Context, override *entity.FeeRuleOverride) error {
	return r.db.WithContext(ctx).Clauses(overrideConflict(override)).Create(override).Error
}

func (r *feeRuleRepository) BatchUpsertOverrides(ctx context.Context, overrides []entity.FeeRuleOverride) error {
	if len(overrides) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range overrides {
			if err := tx.Clauses(overrideConflict(&overrides[i])).Create(&overrides[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *feeRuleRepository) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.FeeRuleOverride{}, "id = ?", id).Error
}

func (r *feeRuleRepository) ListOverridesForRule(ctx context.Context, feeRuleID uuid.UUID) ([]entity.FeeRuleOverride, error) {
	var overrides []entity.FeeRuleOverride
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Preload("AircraftType").
		Where("fee_rule_id = ?", feeRuleID).
		Find(&overrides).Error
	return overrides, err
}
