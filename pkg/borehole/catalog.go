package borehole

import "fmt"

// Catalog is an ordered set of borehole configs keyed by hole id. Model
// builders fill one per evaluation; it is not mutated after that.
type Catalog struct {
	Holes map[string]*Config `json:"holes"`
	Order []string           `json:"order"`
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{Holes: make(map[string]*Config)}
}

// Add stores a copy of cfg. Hole ids must be non-empty and unique.
func (c *Catalog) Add(cfg Config) error {
	if cfg.HoleID == "" {
		return fmt.Errorf("catalog: hole id must not be empty")
	}
	if _, exists := c.Holes[cfg.HoleID]; exists {
		return fmt.Errorf("catalog: hole %q already defined", cfg.HoleID)
	}
	cp := cfg.Clone()
	c.Holes[cfg.HoleID] = &cp
	c.Order = append(c.Order, cfg.HoleID)
	return nil
}

// Lookup returns the config with the given hole id, or nil.
func (c *Catalog) Lookup(id string) *Config {
	return c.Holes[id]
}

// MustLookup returns the config with the given hole id, or panics.
func (c *Catalog) MustLookup(id string) *Config {
	cfg := c.Lookup(id)
	if cfg == nil {
		panic(fmt.Sprintf("catalog: no hole %q", id))
	}
	return cfg
}

// Configs returns copies of all configs in insertion order.
func (c *Catalog) Configs() []Config {
	out := make([]Config, 0, len(c.Order))
	for _, id := range c.Order {
		out = append(out, c.Holes[id].Clone())
	}
	return out
}

// Len returns the number of holes.
func (c *Catalog) Len() int {
	return len(c.Order)
}
