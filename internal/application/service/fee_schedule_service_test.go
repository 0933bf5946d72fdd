package service

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFeeRuleStore keeps fee rules (with overrides preloaded) in memory.
type fakeFeeRuleStore struct {
	repository.FeeRuleRepository
	rules map[uuid.UUID]*entity.FeeRule
}

func (r *fakeFeeRuleStore) GetByID(_ context.Context, id uuid.UUID) (*entity.FeeRule, error) {
	return r.rules[id], nil
}

func (r *fakeFeeRuleStore) ListForClassification(_ context.Context, classificationID uuid.UUID) ([]entity.FeeRule, error) {
	var rules []entity.FeeRule
	for _, rule := range r.rules {
		if rule.ClassificationID == nil || *rule.ClassificationID == classificationID {
			rules = append(rules, *rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].FeeCode < rules[j].FeeCode })
	return rules, nil
}

// fakeAircraftCatalog serves classifications and aircraft types from maps.
type fakeAircraftCatalog struct {
	repository.AircraftRepository
	classifications map[uuid.UUID]*entity.AircraftClassification
	types           map[uuid.UUID]*entity.AircraftType
}

func (r *fakeAircraftCatalog) GetClassification(_ context.Context, id uuid.UUID) (*entity.AircraftClassification, error) {
	return r.classifications[id], nil
}

func (r *fakeAircraftCatalog) GetType(_ context.Context, id uuid.UUID) (*entity.AircraftType, error) {
	return r.types[id], nil
}

type scheduleFixture struct {
	service *FeeScheduleService

	heavyClass uuid.UUID
	lightClass uuid.UUID
	gulfstream *entity.AircraftType
	rampRule   *entity.FeeRule
	globalRule *entity.FeeRule
}

func newScheduleFixture() *scheduleFixture {
	heavyClass := uuid.New()
	lightClass := uuid.New()

	gulfstream := &entity.AircraftType{
		ID:               uuid.New(),
		ICAOCode:         "GLF6",
		Name:             "Gulfstream G650",
		ClassificationID: heavyClass,
	}

	rampRule := &entity.FeeRule{
		ID:               uuid.New(),
		FeeCode:          "RAMP",
		Description:      "Ramp fee",
		ClassificationID: &heavyClass,
		Amount:           dec("100"),
	}
	rampRule.Overrides = []entity.FeeRuleOverride{
		{ID: uuid.New(), FeeRuleID: rampRule.ID, ClassificationID: &heavyClass, OverrideAmount: dec("150")},
		{ID: uuid.New(), FeeRuleID: rampRule.ID, AircraftTypeID: &gulfstream.ID, OverrideAmount: dec("225")},
	}

	globalRule := &entity.FeeRule{
		ID:          uuid.New(),
		FeeCode:     "FACILITY",
		Description: "Facility fee",
		Amount:      dec("50"),
	}

	return &scheduleFixture{
		service: NewFeeScheduleService(
			&fakeFeeRuleStore{rules: map[uuid.UUID]*entity.FeeRule{
				rampRule.ID:   rampRule,
				globalRule.ID: globalRule,
			}},
			&fakeAircraftCatalog{
				classifications: map[uuid.UUID]*entity.AircraftClassification{
					heavyClass: {ID: heavyClass, Name: "Heavy Jet"},
					lightClass: {ID: lightClass, Name: "Light Piston"},
				},
				types: map[uuid.UUID]*entity.AircraftType{gulfstream.ID: gulfstream},
			},
		),
		heavyClass: heavyClass,
		lightClass: lightClass,
		gulfstream: gulfstream,
		rampRule:   rampRule,
		globalRule: globalRule,
	}
}

func TestGetEffectiveAmount_BaseWithoutAircraft(t *testing.T) {
	fx := newScheduleFixture()

	amount, err := fx.service.GetEffectiveAmount(context.Background(), fx.rampRule.ID, nil)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(amount), "got %s", amount)
}

func TestGetEffectiveAmount_AircraftOverrideWins(t *testing.T) {
	fx := newScheduleFixture()

	// The rule carries both a classification and an aircraft override; the
	// aircraft-specific one takes precedence.
	amount, err := fx.service.GetEffectiveAmount(context.Background(), fx.rampRule.ID, &fx.gulfstream.ID)
	require.NoError(t, err)
	assert.True(t, dec("225").Equal(amount), "got %s", amount)
}

func TestGetEffectiveAmount_ClassificationOverride(t *testing.T) {
	fx := newScheduleFixture()

	// Drop the aircraft override so the classification-wide amount applies.
	fx.rampRule.Overrides = fx.rampRule.Overrides[:1]

	amount, err := fx.service.GetEffectiveAmount(context.Background(), fx.rampRule.ID, &fx.gulfstream.ID)
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(amount), "got %s", amount)
}

func TestGetEffectiveAmount_UnknownRule(t *testing.T) {
	fx := newScheduleFixture()

	_, err := fx.service.GetEffectiveAmount(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))
}

func TestListRulesForClassification(t *testing.T) {
	fx := newScheduleFixture()

	rules, err := fx.service.ListRulesForClassification(context.Background(), fx.heavyClass)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "FACILITY", rules[0].FeeCode)
	assert.Equal(t, "RAMP", rules[1].FeeCode)

	// A classification with no scoped rules still gets the global ones.
	rules, err = fx.service.ListRulesForClassification(context.Background(), fx.lightClass)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "FACILITY", rules[0].FeeCode)
}

func TestListRulesForClassification_UnknownClassification(t *testing.T) {
	fx := newScheduleFixture()

	_, err := fx.service.ListRulesForClassification(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))
}
