package game

// CardEffect holds the resolution hooks of a card. Nil hooks are no-ops.
//
// For every action slot the engine runs each hook kind across all acting
// cards of both robots before moving on to the next kind:
// Prepare, AfterPrepare, DoSelf, DoOther, Cleanup.
type CardEffect struct {
	// Prepare mutates only the acting hand and robot (move, flag as attacking, charge).
	Prepare func(hand *Hand, self *Robot)

	// AfterPrepare updates observable state against the opponent using the
	// already prepared hand, e.g. marking a punch as blocked.
	AfterPrepare func(hand *Hand, self, other *Robot)

	// DoSelf applies effects to the acting robot (repair, reinforce).
	DoSelf func(hand *Hand, self, other *Robot)

	// DoOther applies effects to the opponent (damage, forced hand movement).
	DoOther func(hand *Hand, self, other *Robot)

	// Cleanup restores default flags on the acting hand.
	Cleanup func(hand *Hand, self *Robot)
}

// Resolution is a card bound to the hand and robots executing it for one action slot.
type Resolution struct {
	Card  *Card
	Hand  *Hand
	Self  *Robot
	Other *Robot
}

func (r Resolution) SelfPrepare() {
	if r.Card.Effect.Prepare != nil {
		r.Card.Effect.Prepare(r.Hand, r.Self)
	}
}

func (r Resolution) OtherPrepare() {
	if r.Card.Effect.AfterPrepare != nil {
		r.Card.Effect.AfterPrepare(r.Hand, r.Self, r.Other)
	}
}

func (r Resolution) SelfDo() {
	if r.Card.Effect.DoSelf != nil {
		r.Card.Effect.DoSelf(r.Hand, r.Self, r.Other)
	}
}

func (r Resolution) OtherDo() {
	if r.Card.Effect.DoOther != nil {
		r.Card.Effect.DoOther(r.Hand, r.Self, r.Other)
	}
}

func (r Resolution) SelfCleanup() {
	if r.Card.Effect.Cleanup != nil {
		r.Card.Effect.Cleanup(r.Hand, r.Self)
	}
}
