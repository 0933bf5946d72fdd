package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/receipts?"+rawQuery, nil)
	return c
}

// end_date is inclusive: the filter bound is the following midnight and the
// repository compares with strict <, so the whole final day is covered but a
// receipt created exactly at the next midnight is not.
func TestParseReceiptFilters_InclusiveEndDate(t *testing.T) {
	params, err := parseReceiptFilters(filterContext(t, "end_date=2026-03-14"))
	require.NoError(t, err)
	require.NotNil(t, params.EndDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), params.EndDate.UTC())
}

func TestParseReceiptFilters_RejectsMalformedDates(t *testing.T) {
	_, err := parseReceiptFilters(filterContext(t, "end_date=14-03-2026"))
	require.Error(t, err)

	_, err = parseReceiptFilters(filterContext(t, "start_date=yesterday"))
	require.Error(t, err)
}
