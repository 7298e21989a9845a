package arcade

import "math/rand"

// Spawn origins.
const (
	OriginTop    = "top"
	OriginBottom = "bottom"
)

// EntitySpec is one weighted row of a spawn table.
type EntitySpec struct {
	Asset  string `toml:"asset" json:"asset" validate:"required"`
	Weight int    `toml:"weight" json:"weight" validate:"min=0"`
}

// Category describes how one kind of entity is spawned.
type Category struct {
	Specs   []EntitySpec `toml:"specs" json:"specs" validate:"dive"`
	MinSize float64      `toml:"min_size" json:"min_size" validate:"gt=0"`
	MaxSize float64      `toml:"max_size" json:"max_size" validate:"gtefield=MinSize"`
	// Speed offsets are added to the difficulty's speed band.
	SpeedOffsetMin float64 `toml:"speed_offset_min" json:"speed_offset_min"`
	SpeedOffsetMax float64 `toml:"speed_offset_max" json:"speed_offset_max"`
	// Drift bounds the uniform horizontal velocity.
	Drift   float64 `toml:"drift" json:"drift" validate:"min=0"`
	Gravity float64 `toml:"gravity" json:"gravity"`
	Effect  Effect  `toml:"effect" json:"effect"`
}

func (c *Category) totalWeight() int {
	total := 0
	for _, s := range c.Specs {
		if s.Weight > 0 {
			total += s.Weight
		}
	}
	return total
}

// pick draws a spec proportionally to its weight. Specs with a weight of
// zero or less are never chosen.
func (c *Category) pick(rng *rand.Rand) (EntitySpec, bool) {
	total := c.totalWeight()
	if total == 0 {
		return EntitySpec{}, false
	}
	r := rng.Intn(total)
	for _, s := range c.Specs {
		if s.Weight <= 0 {
			continue
		}
		if r < s.Weight {
			return s, true
		}
		r -= s.Weight
	}
	return EntitySpec{}, false
}

// SpawnConfig holds the spawn tables of one game.
type SpawnConfig struct {
	Hazards      Category `toml:"hazards" json:"hazards"`
	Collectibles Category `toml:"collectibles" json:"collectibles"`
	Origin       string   `toml:"origin" json:"origin" validate:"oneof=top bottom"`
	// XMin and XMax bound the spawn column. When XMax is zero the column
	// spans the whole board minus the entity size.
	XMin float64 `toml:"x_min" json:"x_min" validate:"min=0"`
	XMax float64 `toml:"x_max" json:"x_max" validate:"min=0"`
}

// Spawner creates entities from weighted spawn tables.
type Spawner struct {
	cfg    SpawnConfig
	board  Board
	rng    *rand.Rand
	nextID uint64
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(cfg SpawnConfig, board Board, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, board: board, rng: rng}
}

// Spawn creates one entity for the given difficulty parameters. It returns
// false when the chosen category has nothing to spawn.
func (s *Spawner) Spawn(p Params) (*Entity, bool) {
	kind := KindCollectible
	cat := &s.cfg.Collectibles
	if s.rng.Float64() < p.HazardChance {
		kind = KindHazard
		cat = &s.cfg.Hazards
	}

	spec, ok := cat.pick(s.rng)
	if !ok {
		return nil, false
	}

	size := s.uniform(cat.MinSize, cat.MaxSize)

	xMin, xMax := s.cfg.XMin, s.cfg.XMax
	if xMax == 0 {
		xMin, xMax = 0, s.board.Width-size
	}

	vy := s.uniform(p.MinSpeed+cat.SpeedOffsetMin, p.MaxSpeed+cat.SpeedOffsetMax)
	y := -size
	if s.cfg.Origin == OriginBottom {
		y = s.board.Height
	}

	s.nextID++
	return &Entity{
		ID:      s.nextID,
		Kind:    kind,
		Asset:   spec.Asset,
		X:       s.uniform(xMin, xMax),
		Y:       y,
		Size:    size,
		VX:      s.uniform(-cat.Drift, cat.Drift),
		VY:      vy,
		Gravity: cat.Gravity,
		Effect:  cat.Effect,
	}, true
}

func (s *Spawner) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}
