// Package resorts holds the static resort catalog. The catalog ships inside
// the binary; there is no persistence layer behind it.
package resorts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"slopescout/internal/types"
)

//go:embed data/resorts.json
var catalogFS embed.FS

// Resort describes one ski area in the catalog.
type Resort struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Region          types.Region `json:"region"`
	State           string       `json:"state"`
	Lat             float64      `json:"lat"`
	Lon             float64      `json:"lon"`
	BaseElevationFt int          `json:"base_elevation_ft"`
	SummitElevFt    int          `json:"summit_elevation_ft"`
	TrailCount      int          `json:"trail_count"`
	LiftCount       int          `json:"lift_count"`
}

// Catalog is an in-memory, read-only resort lookup. Safe for concurrent use
// after construction.
type Catalog struct {
	byID  map[string]Resort
	order []string
}

// NewCatalog loads the embedded catalog.
func NewCatalog() (*Catalog, error) {
	raw, err := catalogFS.ReadFile("data/resorts.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded resort catalog: %w", err)
	}

	var entries []Resort
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing resort catalog: %w", err)
	}
	return NewCatalogFromEntries(entries)
}

// NewCatalogFromEntries builds a catalog from explicit entries, validating
// each record. Used by NewCatalog and by tests.
func NewCatalogFromEntries(entries []Resort) (*Catalog, error) {
	byID := make(map[string]Resort, len(entries))
	order := make([]string, 0, len(entries))
	for _, r := range entries {
		if r.ID == "" {
			return nil, fmt.Errorf("resort %q has no id", r.Name)
		}
		if !r.Region.Valid() {
			return nil, fmt.Errorf("resort %s has invalid region %q", r.ID, r.Region)
		}
		if err := types.ValidateCoordinates(r.Lat, r.Lon); err != nil {
			return nil, fmt.Errorf("resort %s: %w", r.ID, err)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate resort id %s", r.ID)
		}
		byID[r.ID] = r
		order = append(order, r.ID)
	}
	sort.Strings(order)
	return &Catalog{byID: byID, order: order}, nil
}

// Get returns the resort with the given ID.
func (c *Catalog) Get(id string) (Resort, error) {
	r, ok := c.byID[id]
	if !ok {
		return Resort{}, types.NewAppErrorWithDetails(types.ErrCodeNotFoundResort,
			fmt.Sprintf("unknown resort %q", id), nil,
			map[string]any{"resort_id": id})
	}
	return r, nil
}

// List returns all resorts ordered by ID.
func (c *Catalog) List() []Resort {
	out := make([]Resort, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
