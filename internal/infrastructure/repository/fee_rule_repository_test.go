package repository

import (
	"testing"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func conflictWhereSQL(t *testing.T, c clause.OnConflict) string {
	t.Helper()
	require.Len(t, c.TargetWhere.Exprs, 1)
	expr, ok := c.TargetWhere.Exprs[0].(clause.Expr)
	require.True(t, ok)
	return expr.SQL
}

// The conflict target must name the partial unique index matching the
// override's scope; a target spanning both scope columns never matches under
// Postgres NULLS DISTINCT semantics, turning upserts into duplicate inserts.
func TestOverrideConflict_ClassificationScope(t *testing.T) {
	classificationID := uuid.New()
	c := overrideConflict(&entity.FeeRuleOverride{
		FeeRuleID:        uuid.New(),
		ClassificationID: &classificationID,
		OverrideAmount:   decimal.RequireFromString("75.00"),
	})

	require.Len(t, c.Columns, 2)
	assert.Equal(t, "fee_rule_id", c.Columns[0].Name)
	assert.Equal(t, "classification_id", c.Columns[1].Name)
	assert.Equal(t, "aircraft_type_id IS NULL", conflictWhereSQL(t, c))
	assert.Equal(t, clause.AssignmentColumns([]string{"override_amount", "updated_at"}), c.DoUpdates)
}

func TestOverrideConflict_AircraftScope(t *testing.T) {
	aircraftTypeID := uuid.New()
	c := overrideConflict(&entity.FeeRuleOverride{
		FeeRuleID:      uuid.New(),
		AircraftTypeID: &aircraftTypeID,
		OverrideAmount: decimal.RequireFromString("120.00"),
	})

	require.Len(t, c.Columns, 2)
	assert.Equal(t, "fee_rule_id", c.Columns[0].Name)
	assert.Equal(t, "aircraft_type_id", c.Columns[1].Name)
	assert.Equal(t, "classification_id IS NULL", conflictWhereSQL(t, c))
}
