package fboclient

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog caches the slow-changing admin reference data (classifications,
// aircraft types, fuel types) so pickers don't refetch on every keystroke.
type Catalog struct {
	client *Client

	classifications Cache[[]AircraftClassification]
	aircraftTypes   Cache[[]AircraftType]
	fuelTypes       Cache[[]FuelType]
}

// NewCatalog creates a catalog over the given client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

// Classifications returns the cached classification list, fetching on a miss.
func (c *Catalog) Classifications(ctx context.Context) ([]AircraftClassification, error) {
	if cached, ok := c.classifications.Get(); ok {
		return cached, nil
	}
	classifications, err := c.client.ListClassifications(ctx)
	if err != nil {
		return nil, err
	}
	c.classifications.Put(classifications)
	return classifications, nil
}

// AircraftTypes returns the cached aircraft type list, fetching on a miss.
func (c *Catalog) AircraftTypes(ctx context.Context) ([]AircraftType, error) {
	if cached, ok := c.aircraftTypes.Get(); ok {
		return cached, nil
	}
	types, err := c.client.ListAircraftTypes(ctx, nil)
	if err != nil {
		return nil, err
	}
	c.aircraftTypes.Put(types)
	return types, nil
}

// FuelTypes returns the cached fuel type list, fetching on a miss.
func (c *Catalog) FuelTypes(ctx context.Context) ([]FuelType, error) {
	if cached, ok := c.fuelTypes.Get(); ok {
		return cached, nil
	}
	fuelTypes, err := c.client.ListFuelTypes(ctx)
	if err != nil {
		return nil, err
	}
	c.fuelTypes.Put(fuelTypes)
	return fuelTypes, nil
}

// SetFuelPrice updates a fuel price through the API, showing the new price
// optimistically and rolling the cache back if the call fails.
func (c *Catalog) SetFuelPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*FuelType, error) {
	if cached, ok := c.fuelTypes.Get(); ok {
		speculative := make([]FuelType, len(cached))
		copy(speculative, cached)
		for i := range speculative {
			if speculative[i].ID == id {
				speculative[i].CurrentPricePerGallon = price
			}
		}
		c.fuelTypes.Apply(speculative)
	}

	fuelType, err := c.client.SetFuelPrice(ctx, id, price)
	if err != nil {
		c.fuelTypes.Rollback()
		return nil, err
	}
	// The server response is authoritative; refetch on next read.
	c.fuelTypes.Invalidate()
	return fuelType, nil
}

// Invalidate drops all cached lists, forcing a refetch on next read.
func (c *Catalog) Invalidate() {
	c.classifications.Invalidate()
	c.aircraftTypes.Invalidate()
	c.fuelTypes.Invalidate()
}
