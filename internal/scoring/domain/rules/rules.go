// Package rules holds the configurable slow-pitch rule set shared by the
// aggregates and the at-bat coordinator.
package rules

// Config captures the active rule set for a game.
type Config struct {
	// OutsPerHalf is the number of outs that ends a half-inning.
	OutsPerHalf int
	// TotalInnings is the regulation game length.
	TotalInnings int
	// MaxBattingSlots bounds the batting order (slots 1..MaxBattingSlots).
	MaxBattingSlots int
	// MaxRosterSize bounds the total roster, bench included.
	MaxRosterSize int
}

// Default returns the standard slow-pitch rule set.
func Default() Config {
	return Config{
		OutsPerHalf:     3,
		TotalInnings:    7,
		MaxBattingSlots: 20,
		MaxRosterSize:   25,
	}
}

// Normalize fills zero fields with defaults so a partially configured rule
// set never disables inning or roster accounting.
func (c Config) Normalize() Config {
	def := Default()
	if c.OutsPerHalf <= 0 {
		c.OutsPerHalf = def.OutsPerHalf
	}
	if c.TotalInnings <= 0 {
		c.TotalInnings = def.TotalInnings
	}
	if c.MaxBattingSlots <= 0 {
		c.MaxBattingSlots = def.MaxBattingSlots
	}
	if c.MaxRosterSize <= 0 {
		c.MaxRosterSize = def.MaxRosterSize
	}
	return c
}
