package arcade

// Kind tags what an entity does to a player that touches it.
type Kind uint8

const (
	// KindHazard damages the player, or costs score while shielded.
	KindHazard Kind = iota
	// KindCollectible rewards score.
	KindCollectible
)

func (k Kind) String() string {
	if k == KindCollectible {
		return "collectible"
	}
	return "hazard"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Effect is the variant-specific outcome data carried by an entity.
type Effect struct {
	// Score is awarded when a collectible is touched.
	Score int `toml:"score" json:"score,omitempty" validate:"min=0"`
	// Damage is the number of lives an unshielded hazard hit costs.
	Damage int `toml:"damage" json:"damage,omitempty" validate:"min=0"`
	// Lethal hazards take every remaining life.
	Lethal bool `toml:"lethal" json:"lethal,omitempty"`
	// ShieldPenalty is subtracted from the score when a shield absorbs the hazard.
	ShieldPenalty int `toml:"shield_penalty" json:"shield_penalty,omitempty" validate:"min=0"`
	// MissLives is charged when the entity leaves the board untouched.
	MissLives int `toml:"miss_lives" json:"miss_lives,omitempty" validate:"min=0"`
}

// Entity is a falling object on the board.
type Entity struct {
	ID       uint64  `json:"id"`
	Kind     Kind    `json:"kind"`
	Asset    string  `json:"asset"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Gravity  float64 `json:"-"`
	Resolved bool    `json:"resolved"`
	Effect   Effect  `json:"-"`
}

// Rect returns the square hit region of the entity.
func (e *Entity) Rect() Rect {
	return Rect{X: e.X, Y: e.Y, W: e.Size, H: e.Size}
}

// Update advances the entity by one tick. Resolved entities stay put.
func (e *Entity) Update() {
	if e.Resolved {
		return
	}
	e.X += e.VX
	e.Y += e.VY
	e.VY += e.Gravity
}

// OffBoard reports whether the entity has fallen below the board. Entities
// launched from the bottom edge only count once they are falling.
func (e *Entity) OffBoard(height float64) bool {
	return e.Y > height && e.VY > 0
}
