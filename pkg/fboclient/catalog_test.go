package fboclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CachesFuelTypes(t *testing.T) {
	id := uuid.New()
	var mu sync.Mutex
	var listCalls int
	failPrice := false

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/admin/fuel-types":
			listCalls++
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data": []FuelType{
					{ID: id, Code: "JET_A", Name: "Jet A", CurrentPricePerGallon: decimal.RequireFromString("5.00")},
				},
			})
		case r.Method == http.MethodPut:
			if failPrice {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "boom"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    FuelType{ID: id, Code: "JET_A", Name: "Jet A", CurrentPricePerGallon: decimal.RequireFromString("6.25")},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)

	catalog := NewCatalog(New(Config{BaseURL: ts.URL}))
	ctx := context.Background()

	fuelTypes, err := catalog.FuelTypes(ctx)
	require.NoError(t, err)
	require.Len(t, fuelTypes, 1)

	// Second read is served from cache.
	_, err = catalog.FuelTypes(ctx)
	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, 1, listCalls)
	mu.Unlock()

	// A failed price update rolls the cache back to the fetched price.
	mu.Lock()
	failPrice = true
	mu.Unlock()
	_, err = catalog.SetFuelPrice(ctx, id, decimal.RequireFromString("6.25"))
	require.Error(t, err)
	fuelTypes, err = catalog.FuelTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5", fuelTypes[0].CurrentPricePerGallon.String())

	// A successful update invalidates the cache; the next read refetches.
	mu.Lock()
	failPrice = false
	mu.Unlock()
	updated, err := catalog.SetFuelPrice(ctx, id, decimal.RequireFromString("6.25"))
	require.NoError(t, err)
	assert.Equal(t, "6.25", updated.CurrentPricePerGallon.String())

	_, err = catalog.FuelTypes(ctx)
	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, 2, listCalls)
	mu.Unlock()
}
