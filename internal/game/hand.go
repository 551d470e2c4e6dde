package game

// Hand is one of the robot's two hands, occupying a lane.
type Hand struct {
	side     HandSide
	position int
	min, max int

	IsBlocking  bool
	IsAttacking bool
	IsBlocked   bool

	// DamageMultiplier above 1 means the hand is charged.
	DamageMultiplier int

	allowOutOfBounds bool
}

func newHand(side HandSide, position, min, max int) *Hand {
	h := &Hand{
		side:             side,
		min:              min,
		max:              max,
		IsBlocking:       true,
		DamageMultiplier: 1,
	}
	h.SetPosition(position)
	return h
}

func (h *Hand) Side() HandSide {
	return h.side
}

func (h *Hand) Position() int {
	return h.position
}

func (h *Hand) Min() int {
	return h.min
}

func (h *Hand) Max() int {
	return h.max
}

// SetPosition moves the hand, clamped to [Min, Max] unless out-of-bounds
// movement is currently allowed.
func (h *Hand) SetPosition(position int) {
	if h.allowOutOfBounds {
		h.position = position
		return
	}
	h.position = max(h.min, min(position, h.max))
}

// Move shifts the hand by delta lanes (negative is up).
func (h *Hand) Move(delta int) {
	h.SetPosition(h.position + delta)
}

// SetAllowOutOfBounds toggles bounds relaxation. Disabling it snaps the hand
// back inside the bounds.
func (h *Hand) SetAllowOutOfBounds(allow bool) {
	h.allowOutOfBounds = allow
	if !allow {
		h.SetPosition(h.position)
	}
}

func (h *Hand) AllowsOutOfBounds() bool {
	return h.allowOutOfBounds
}

func (h *Hand) IsCharged() bool {
	return h.DamageMultiplier > 1
}

// Discharge clears any pending charge.
func (h *Hand) Discharge() {
	h.DamageMultiplier = 1
}

// Covers reports whether a punch aimed at position hits this hand's two lane hitbox.
func (h *Hand) Covers(position int) bool {
	return h.position == position || h.position == position+1
}

func (h *Hand) copy() *Hand {
	cp := *h
	return &cp
}

func (h *Hand) Info() HandInfo {
	return HandInfo{
		Position:    h.position,
		IsBlocking:  h.IsBlocking,
		IsAttacking: h.IsAttacking,
		IsBlocked:   h.IsBlocked,
		IsCharged:   h.IsCharged(),
	}
}
