package arcade

import "time"

// Player is one tracked participant. In cursor mode the player acts through
// fingertip cursors; in body mode through an avatar steered by the nose.
type Player struct {
	ID         int           `json:"id"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Size       float64       `json:"size"`
	JumpOffset float64       `json:"jump_offset"`
	Jumping    bool          `json:"jumping"`
	Shielded   bool          `json:"shielded"`
	ShieldLeft time.Duration `json:"shield_left"`
	Lives      int           `json:"lives"`
	Score      int           `json:"score"`
	Eliminated bool          `json:"eliminated"`
	Cursors    []Point       `json:"cursors,omitempty"`
	Trails     [][]Point     `json:"trails,omitempty"`

	shieldUntil time.Duration
	jumpHeight  float64
	jumpSpeed   float64
	boardWidth  float64
}

func newPlayer(id int, players int, cfg *Config) *Player {
	p := &Player{
		ID:         id,
		Size:       cfg.Player.Size,
		Lives:      cfg.Lives,
		jumpHeight: cfg.Player.JumpHeight,
		jumpSpeed:  cfg.Player.JumpSpeed,
		boardWidth: cfg.Board.Width,
	}

	// Avatars start centered in their own slice of the board
	slot := cfg.Board.Width / float64(players)
	p.X = slot*float64(id-1) + slot/2 - p.Size/2
	p.Y = cfg.Board.Height - p.Size - cfg.Player.Margin

	return p
}

// Rect returns the hit region of the avatar, lifted by the jump offset.
// Eliminated players report a region that never intersects the board.
func (p *Player) Rect() Rect {
	if p.Eliminated {
		return offBoard
	}
	return Rect{X: p.X, Y: p.Y - p.JumpOffset, W: p.Size, H: p.Size}
}

// MoveTo centers the avatar on targetX, keeping it on the board.
func (p *Player) MoveTo(targetX float64) {
	if p.Eliminated {
		return
	}
	p.X = clamp(targetX-p.Size/2, 0, p.boardWidth-p.Size)
}

// Jump starts a jump. The offset rises to the jump height and falls back.
func (p *Player) Jump() {
	if p.Eliminated {
		return
	}
	p.Jumping = true
}

func (p *Player) updateJump() {
	if p.Eliminated {
		return
	}
	if p.Jumping {
		if p.JumpOffset < p.jumpHeight {
			p.JumpOffset += p.jumpSpeed
		} else {
			p.Jumping = false
		}
		return
	}
	if p.JumpOffset > 0 {
		p.JumpOffset -= p.jumpSpeed
	}
	if p.JumpOffset < 0 {
		p.JumpOffset = 0
	}
}

// activateShield raises the shield until now+d, restarting any running expiry.
func (p *Player) activateShield(now, d time.Duration) bool {
	if p.Eliminated {
		return false
	}
	raised := !p.Shielded
	p.Shielded = true
	p.shieldUntil = now + d
	p.ShieldLeft = d
	return raised
}

func (p *Player) expireShield(now time.Duration) {
	if !p.Shielded {
		return
	}
	if now >= p.shieldUntil {
		p.Shielded = false
		p.ShieldLeft = 0
		return
	}
	p.ShieldLeft = p.shieldUntil - now
}

// hits reports whether the entity touches the player.
func (p *Player) hits(e *Entity, cursorMode bool) bool {
	if p.Eliminated {
		return false
	}
	if !cursorMode {
		return p.Rect().Intersects(e.Rect())
	}
	r := e.Rect()
	for _, c := range p.Cursors {
		if r.Contains(c) {
			return true
		}
	}
	return false
}

// loseLives removes n lives and reports whether the player was eliminated
// by this call. Lives never go below zero.
func (p *Player) loseLives(n int) bool {
	if p.Eliminated || n <= 0 {
		return false
	}
	p.Lives -= n
	if p.Lives > 0 {
		return false
	}
	p.Lives = 0
	p.Eliminated = true
	p.Shielded = false
	p.ShieldLeft = 0
	p.Cursors = nil
	p.Trails = nil
	return true
}

func (p *Player) addScore(n int) {
	p.Score += n
	if p.Score < 0 {
		p.Score = 0
	}
}

// setCursors replaces the cursors and extends each cursor's trail.
func (p *Player) setCursors(cursors []Point, trailLength int) {
	if p.Eliminated {
		return
	}
	p.Cursors = cursors
	if len(p.Trails) < len(cursors) {
		p.Trails = append(p.Trails, make([][]Point, len(cursors)-len(p.Trails))...)
	}
	for i := range p.Trails {
		if i >= len(cursors) {
			p.Trails[i] = nil
			continue
		}
		trail := append(p.Trails[i], cursors[i])
		if len(trail) > trailLength {
			trail = trail[len(trail)-trailLength:]
		}
		p.Trails[i] = trail
	}
}

func (p *Player) clone() Player {
	c := *p
	c.Cursors = append([]Point(nil), p.Cursors...)
	c.Trails = make([][]Point, len(p.Trails))
	for i, t := range p.Trails {
		c.Trails[i] = append([]Point(nil), t...)
	}
	return c
}
