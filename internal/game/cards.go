package game

import "fmt"

// CardType is the catalogue key of a card.
type CardType string

const (
	CardBlank     CardType = "blank"
	CardUp1       CardType = "up1"
	CardUp2       CardType = "up2"
	CardUp3       CardType = "up3"
	CardDown1     CardType = "down1"
	CardDown2     CardType = "down2"
	CardDown3     CardType = "down3"
	CardHandFlip  CardType = "hand_flip"
	CardPunch     CardType = "punch"
	CardUpPunch   CardType = "up_flip"
	CardDownPunch CardType = "down_flip"
	CardFlipPunch CardType = "flip_punch"
	CardCharge    CardType = "charge"
	CardPushUp    CardType = "push_up"
	CardPushDown  CardType = "push_down"
	CardRepair    CardType = "repair"
	CardReinforce CardType = "reinforce"
)

// Balance of the card effects.
const (
	PunchDamage            = 10
	BlockedDamagePerHand   = 8
	ChargeMultiplier       = 3
	RepairHealthIncrease   = 10
	ReinforceMaxIncrease   = 10
	ReinforceHealIncrease  = 15
	ReinforceNeighborsLoss = 10
)

// Card is an immutable behavior descriptor. It carries no per-instance state,
// so the same *Card may sit in several piles and game forks at once.
type Card struct {
	Type        CardType
	Icon        string
	Name        string
	Description string
	Effect      CardEffect
}

func (c *Card) String() string {
	return c.Name
}

func (c *Card) Info() CardInfo {
	return CardInfo{Type: string(c.Type), Icon: c.Icon, Name: c.Name}
}

// --- Shared effect pieces ---

func moveBy(delta int) func(*Hand, *Robot) {
	return func(h *Hand, _ *Robot) {
		h.Move(delta)
	}
}

func flipPosition(h *Hand) {
	h.SetPosition(h.Max() - h.Position() + h.Min())
}

func punchPrepare(h *Hand, _ *Robot) {
	h.IsBlocking = false
	h.IsAttacking = true
}

func punchAfterPrepare(h *Hand, _, other *Robot) {
	h.IsBlocked = len(other.HandsBlockingAt(h.Position())) > 0
}

// PunchDamageAgainst computes the damage a punch from hand deals to other.
func PunchDamageAgainst(h *Hand, other *Robot) int {
	blockingHandsCount := len(other.HandsBlockingAt(h.Position()))
	damage := max(0, PunchDamage-blockingHandsCount*BlockedDamagePerHand)
	return damage * h.DamageMultiplier
}

func punchDo(h *Hand, _, other *Robot) {
	other.BodypartAt(h.Position()).Damage(PunchDamageAgainst(h, other))
}

func punchCleanup(h *Hand, _ *Robot) {
	h.IsBlocked = false
	h.IsBlocking = true
	h.IsAttacking = false
	h.Discharge()
}

func punchEffect() CardEffect {
	return CardEffect{
		Prepare:      punchPrepare,
		AfterPrepare: punchAfterPrepare,
		DoOther:      punchDo,
		Cleanup:      punchCleanup,
	}
}

func pushBy(delta int) CardEffect {
	return CardEffect{
		Prepare: func(h *Hand, _ *Robot) {
			h.IsBlocking = false
			h.IsAttacking = true
			h.IsBlocked = true
		},
		DoOther: func(h *Hand, _, other *Robot) {
			for _, otherHand := range other.HandsBlockingAt(h.Position()) {
				otherHand.Move(delta)
			}
		},
		Cleanup: func(h *Hand, _ *Robot) {
			h.IsBlocking = !h.IsCharged()
			h.IsAttacking = false
			h.IsBlocked = false
		},
	}
}

func maintenancePrepare(h *Hand, _ *Robot) {
	h.Discharge()
	h.IsBlocking = false
}

func maintenanceCleanup(h *Hand, _ *Robot) {
	h.IsBlocking = true
}

// --- Catalogue ---

func BlankCard() *Card {
	return &Card{
		Type:        CardBlank,
		Icon:        "📄",
		Name:        "Idle",
		Description: "Keeps the hand in its current position. In other words, it does nothing.",
	}
}

func Up1Card() *Card {
	return &Card{
		Type:        CardUp1,
		Icon:        "☝️",
		Name:        "Raise",
		Description: "Moves your hand up by one position.",
		Effect:      CardEffect{Prepare: moveBy(-1)},
	}
}

func Up2Card() *Card {
	return &Card{
		Type:        CardUp2,
		Icon:        "☝️❗",
		Name:        "Raise by two",
		Description: "Moves your hand up two positions closer to the head.",
		Effect:      CardEffect{Prepare: moveBy(-2)},
	}
}

func Up3Card() *Card {
	return &Card{
		Type:        CardUp3,
		Icon:        "☝️‼️",
		Name:        "Triple Raise",
		Description: "Moves your hand up three positions in a single action.",
		Effect:      CardEffect{Prepare: moveBy(-3)},
	}
}

func Down1Card() *Card {
	return &Card{
		Type:        CardDown1,
		Icon:        "👇",
		Name:        "Lower",
		Description: "Moves your hand down by one position.",
		Effect:      CardEffect{Prepare: moveBy(1)},
	}
}

func Down2Card() *Card {
	return &Card{
		Type:        CardDown2,
		Icon:        "👇❗",
		Name:        "Lower by two",
		Description: "Moves your hand down two positions closer to the heatsink.",
		Effect:      CardEffect{Prepare: moveBy(2)},
	}
}

func Down3Card() *Card {
	return &Card{
		Type:        CardDown3,
		Icon:        "👇‼️",
		Name:        "Triple Lower",
		Description: "Moves your hand down three positions in a single action.",
		Effect:      CardEffect{Prepare: moveBy(3)},
	}
}

func HandFlipCard() *Card {
	return &Card{
		Type:        CardHandFlip,
		Icon:        "👋",
		Name:        "Mirror Hand",
		Description: "Switches the hand to the mirrored position on the other side of the torso.",
		Effect: CardEffect{Prepare: func(h *Hand, _ *Robot) {
			flipPosition(h)
		}},
	}
}

func PunchCard() *Card {
	return &Card{
		Type:        CardPunch,
		Icon:        "👊",
		Name:        "Punch card",
		Description: fmt.Sprintf("Punch the opposing robot. Deals %d damage. Each blocking hand lowers the damage by %d.", PunchDamage, BlockedDamagePerHand),
		Effect:      punchEffect(),
	}
}

func UpPunchCard() *Card {
	effect := punchEffect()
	effect.Prepare = func(h *Hand, self *Robot) {
		h.SetAllowOutOfBounds(true)
		h.Move(-1)
		punchPrepare(h, self)
	}
	effect.Cleanup = func(h *Hand, self *Robot) {
		punchCleanup(h, self)
		h.SetAllowOutOfBounds(false)
	}
	return &Card{
		Type:        CardUpPunch,
		Icon:        "☝️👊",
		Name:        "Raise Punch",
		Description: fmt.Sprintf("Punch one position higher than the hand. Deals %d damage. Misses from the topmost position.", PunchDamage),
		Effect:      effect,
	}
}

func DownPunchCard() *Card {
	effect := punchEffect()
	effect.Prepare = func(h *Hand, self *Robot) {
		h.SetAllowOutOfBounds(true)
		h.Move(1)
		punchPrepare(h, self)
	}
	effect.Cleanup = func(h *Hand, self *Robot) {
		punchCleanup(h, self)
		h.SetAllowOutOfBounds(false)
	}
	return &Card{
		Type:        CardDownPunch,
		Icon:        "👇👊",
		Name:        "Lower Punch",
		Description: fmt.Sprintf("Punch one position lower than the hand. Deals %d damage. Misses from the lowest position.", PunchDamage),
		Effect:      effect,
	}
}

func FlipPunchCard() *Card {
	effect := punchEffect()
	effect.Prepare = func(h *Hand, self *Robot) {
		flipPosition(h)
		punchPrepare(h, self)
	}
	return &Card{
		Type:        CardFlipPunch,
		Icon:        "👋👊",
		Name:        "Mirror Punch",
		Description: fmt.Sprintf("Mirror the hand position and punch from there. Deals %d damage.", PunchDamage),
		Effect:      effect,
	}
}

func ChargeCard() *Card {
	return &Card{
		Type:        CardCharge,
		Icon:        "💥",
		Name:        "Charge",
		Description: fmt.Sprintf("Multiplies the damage of the next punch by %d. The hand cannot block until it punches.", ChargeMultiplier),
		Effect: CardEffect{Prepare: func(h *Hand, _ *Robot) {
			h.IsBlocking = false
			h.DamageMultiplier = ChargeMultiplier
		}},
	}
}

func PushUpCard() *Card {
	return &Card{
		Type:        CardPushUp,
		Icon:        "🖐️☝️",
		Name:        "Nudge up",
		Description: "Forces the opponent's blocking hand in this position one lane up, opening their guard.",
		Effect:      pushBy(-1),
	}
}

func PushDownCard() *Card {
	return &Card{
		Type:        CardPushDown,
		Icon:        "🖐️👇",
		Name:        "Nudge down",
		Description: "Forces the opponent's blocking hand in this position one lane down, opening their guard.",
		Effect:      pushBy(1),
	}
}

func RepairCard() *Card {
	return &Card{
		Type:        CardRepair,
		Icon:        "🔧",
		Name:        "Repair",
		Description: fmt.Sprintf("Restores %d HP to the bodypart in the current lane.", RepairHealthIncrease),
		Effect: CardEffect{
			Prepare: maintenancePrepare,
			DoSelf: func(h *Hand, self, _ *Robot) {
				self.BodypartAt(h.Position()).Heal(RepairHealthIncrease)
			},
			Cleanup: maintenanceCleanup,
		},
	}
}

func ReinforceCard() *Card {
	return &Card{
		Type: CardReinforce,
		Icon: "🛠️",
		Name: "Brace up",
		Description: fmt.Sprintf("Raises max HP of the bodypart in the current lane by %d and restores %d HP. Neighboring bodyparts lose %d HP in total.",
			ReinforceMaxIncrease, ReinforceHealIncrease, ReinforceNeighborsLoss),
		Effect: CardEffect{
			Prepare: maintenancePrepare,
			DoSelf: func(h *Hand, self, _ *Robot) {
				bodypart := self.BodypartAt(h.Position())
				bodypart.SetMaxHealth(bodypart.MaxHealth() + ReinforceMaxIncrease)
				bodypart.Heal(ReinforceHealIncrease)

				neighbors := self.NeighboringBodyparts(bodypart)
				for _, neighbor := range neighbors {
					neighbor.Damage(ReinforceNeighborsLoss / len(neighbors))
				}
			},
			Cleanup: maintenanceCleanup,
		},
	}
}
