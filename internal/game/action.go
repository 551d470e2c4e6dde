package game

// Action is one of the robot's per-round slots: a card bound to the hand that executes it.
type Action struct {
	card          *Card
	hand          HandSide
	handCardIndex int
}

func newAction() *Action {
	return &Action{card: blank(), hand: HandRight, handCardIndex: -1}
}

func (a *Action) Card() *Card {
	return a.card
}

func (a *Action) Hand() HandSide {
	return a.hand
}

// HandCardIndex returns the hand card backing this slot, or -1.
func (a *Action) HandCardIndex() int {
	return a.handCardIndex
}

// IsIdle reports whether the slot carries no hand card.
func (a *Action) IsIdle() bool {
	return a.handCardIndex < 0
}

func (a *Action) insert(card *Card, handCardIndex int) {
	a.card = card
	a.handCardIndex = handCardIndex
}

func (a *Action) toggleHand() {
	a.hand = a.hand.Toggle()
}

// discard resets the card but keeps the selected hand.
func (a *Action) discard() {
	a.card = blank()
	a.handCardIndex = -1
}

func (a *Action) resolution(self, other *Robot) Resolution {
	return Resolution{
		Card:  a.card,
		Hand:  self.Hand(a.hand),
		Self:  self,
		Other: other,
	}
}

func (a *Action) copy() *Action {
	cp := *a
	return &cp
}

func (a *Action) Info() ActionInfo {
	return ActionInfo{
		Card:          a.card.Info(),
		Hand:          a.hand.String(),
		HandCardIndex: a.handCardIndex,
	}
}
