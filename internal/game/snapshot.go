package game

// Snapshot records emitted to collaborators. They are plain values and safe to
// hand across goroutines or encode as JSON.

type BodypartInfo struct {
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
}

type HandInfo struct {
	Position    int  `json:"position"`
	IsBlocking  bool `json:"isBlocking"`
	IsAttacking bool `json:"isAttacking"`
	IsBlocked   bool `json:"isBlocked"`
	IsCharged   bool `json:"isCharged"`
}

type RobotInfo struct {
	State          string       `json:"state"`
	Head           BodypartInfo `json:"head"`
	Torso          BodypartInfo `json:"torso"`
	Heatsink       BodypartInfo `json:"heatsink"`
	RightHand      HandInfo     `json:"rightHand"`
	LeftHand       HandInfo     `json:"leftHand"`
	TimeToInput    int          `json:"timeToInput"`
	MaxTimeToInput int          `json:"maxTimeToInput"`
}

type CardInfo struct {
	Type string `json:"type"`
	Icon string `json:"icon"`
	Name string `json:"name"`
}

type ActionInfo struct {
	Card CardInfo `json:"card"`
	Hand string   `json:"hand"`
	// HandCardIndex is -1 when the slot is idle.
	HandCardIndex int `json:"handCardIndex"`
}

type CardsInfo struct {
	Actions             []ActionInfo `json:"actions"`
	HandCards           []CardInfo   `json:"handCards"`
	DeckCardsCount      int          `json:"deckCardsCount"`
	DiscardedCardsCount int          `json:"discardedCardsCount"`
}

// TickInfo is the payload of a tick notification.
type TickInfo struct {
	// CurrentAction is the resolving action slot, or -1 outside the action phase.
	CurrentAction int `json:"currentAction"`
	TickCounter   int `json:"tickCounter"`
}

// PhaseInfo is published after each resolution phase of an action slot.
type PhaseInfo struct {
	Phase  string    `json:"phase"`
	Action int       `json:"action"`
	Left   RobotInfo `json:"leftRobotInfo"`
	Right  RobotInfo `json:"rightRobotInfo"`
}
