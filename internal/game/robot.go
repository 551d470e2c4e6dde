package game

import "fmt"

// Robot is one side of the match: body parts, two hands, action slots and card piles.
type Robot struct {
	side  Side
	state RobotState

	head     *Bodypart
	torso    *Bodypart
	heatsink *Bodypart

	rightHand *Hand
	leftHand  *Hand

	actions    []*Action
	// slot hands when the input window opened; a safe copy restores them
	roundHands []HandSide

	handSlots []CardType // fixed card type or CardRandom per hand slot
	handCards []*Card
	handFixed []bool // parallel to handCards
	deckCards []*Card
	discarded []*Card
	rng       *RandomGenerator

	timeToInput              int
	maxTimeToInput           int
	inputOvertimeTorsoDamage int

	// onUpdate is called after every state change; the owning game publishes snapshots from it.
	onUpdate func()
}

// NewRobot builds a robot in PREPARING state with a shuffled deck.
func NewRobot(side Side, opts RobotOptions, rng *RandomGenerator) (*Robot, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	deck, err := NewDeck(opts.DeckCards)
	if err != nil {
		return nil, err
	}

	r := &Robot{
		side:                     side,
		state:                    StatePreparing,
		head:                     newBodypart("head", opts.HeadHealth),
		torso:                    newBodypart("torso", opts.TorsoHealth),
		heatsink:                 newBodypart("heatsink", opts.HeatsinkHealth),
		rightHand:                newHand(HandRight, opts.RightHandPosition, HandPositionMin, HandPositionMax),
		leftHand:                 newHand(HandLeft, opts.LeftHandPosition, HandPositionMin, HandPositionMax),
		handSlots:                opts.HandSlots(),
		rng:                      rng,
		maxTimeToInput:           opts.MaxTimeToInput,
		timeToInput:              opts.MaxTimeToInput,
		inputOvertimeTorsoDamage: opts.InputOvertimeTorsoDamage,
	}
	r.actions = make([]*Action, opts.ActionsCount)
	for i := range r.actions {
		r.actions[i] = newAction()
	}
	r.roundHands = r.slotHands()
	r.deckCards = Shuffle(rng, deck)
	return r, nil
}

// --- Accessors ---

func (r *Robot) Side() Side {
	return r.side
}

func (r *Robot) State() RobotState {
	return r.state
}

func (r *Robot) Head() *Bodypart {
	return r.head
}

func (r *Robot) Torso() *Bodypart {
	return r.torso
}

func (r *Robot) Heatsink() *Bodypart {
	return r.heatsink
}

func (r *Robot) Bodyparts() []*Bodypart {
	return []*Bodypart{r.head, r.torso, r.heatsink}
}

func (r *Robot) RightHand() *Hand {
	return r.rightHand
}

func (r *Robot) LeftHand() *Hand {
	return r.leftHand
}

// Hand returns the hand for the given side.
func (r *Robot) Hand(side HandSide) *Hand {
	if side == HandLeft {
		return r.leftHand
	}
	return r.rightHand
}

func (r *Robot) Actions() []*Action {
	return r.actions
}

func (r *Robot) HandCards() []*Card {
	return r.handCards
}

func (r *Robot) DeckCount() int {
	return len(r.deckCards)
}

func (r *Robot) DiscardCount() int {
	return len(r.discarded)
}

// PileCardsCount is the number of cards circulating between deck, hand and
// discard pile. Fixed hand cards are not counted.
func (r *Robot) PileCardsCount() int {
	n := len(r.deckCards) + len(r.discarded)
	for _, fixed := range r.handFixed {
		if !fixed {
			n++
		}
	}
	return n
}

func (r *Robot) TimeToInput() int {
	return r.timeToInput
}

func (r *Robot) MaxTimeToInput() int {
	return r.maxTimeToInput
}

// IsDestroyed reports whether any bodypart is at zero health.
func (r *Robot) IsDestroyed() bool {
	return r.head.IsDestroyed() || r.torso.IsDestroyed() || r.heatsink.IsDestroyed()
}

// BodypartAt maps a lane to the bodypart it reaches. Lanes outside the robot
// give a disposable bodypart.
func (r *Robot) BodypartAt(position int) *Bodypart {
	switch position {
	case 1, 2:
		return r.head
	case 3, 4, 5:
		return r.torso
	case 6, 7:
		return r.heatsink
	}
	return disposableBodypart()
}

// NeighboringBodyparts returns the bodyparts adjacent to b in the head, torso, heatsink chain.
func (r *Robot) NeighboringBodyparts(b *Bodypart) []*Bodypart {
	switch b {
	case r.head:
		return []*Bodypart{r.torso}
	case r.torso:
		return []*Bodypart{r.head, r.heatsink}
	case r.heatsink:
		return []*Bodypart{r.torso}
	}
	return nil
}

// HandsBlockingAt returns the blocking hands whose hitbox covers position.
func (r *Robot) HandsBlockingAt(position int) []*Hand {
	var hands []*Hand
	for _, h := range []*Hand{r.rightHand, r.leftHand} {
		if h.IsBlocking && h.Covers(position) {
			hands = append(hands, h)
		}
	}
	return hands
}

// --- Commands ---

func (r *Robot) requireState(want RobotState, command string) error {
	if r.state != want {
		return fmt.Errorf("%w: %s robot can %s only during %s, currently %s", ErrIllegalState, r.side, command, want, r.state)
	}
	return nil
}

func (r *Robot) requireAction(index int) error {
	if index < 0 || index >= len(r.actions) {
		return fmt.Errorf("%w: action index %d out of range [0, %d)", ErrInvalidIndex, index, len(r.actions))
	}
	return nil
}

// DrawHand discards the current hand, draws a new one and opens the input window.
func (r *Robot) DrawHand() error {
	if err := r.requireState(StatePreparing, "draw hand"); err != nil {
		return err
	}

	for _, a := range r.actions {
		a.discard()
	}
	for i, card := range r.handCards {
		if !r.handFixed[i] {
			r.discarded = append(r.discarded, card)
		}
	}
	r.handCards = r.handCards[:0:0]
	r.handFixed = r.handFixed[:0:0]

	for _, slot := range r.handSlots {
		if slot != CardRandom {
			r.handCards = append(r.handCards, MustLookupCard(slot))
			r.handFixed = append(r.handFixed, true)
			continue
		}
		if len(r.deckCards) == 0 {
			r.deckCards = Shuffle(r.rng, r.discarded)
			r.discarded = nil
		}
		if len(r.deckCards) == 0 {
			continue
		}
		r.handCards = append(r.handCards, r.deckCards[0])
		r.handFixed = append(r.handFixed, false)
		r.deckCards = r.deckCards[1:]
	}

	r.roundHands = r.slotHands()
	r.timeToInput = r.maxTimeToInput
	r.state = StateWaitingForInput
	r.update()
	return nil
}

func (r *Robot) slotHands() []HandSide {
	hands := make([]HandSide, len(r.actions))
	for i, a := range r.actions {
		hands[i] = a.hand
	}
	return hands
}

// ChooseAction binds a hand card to an action slot. A hand card already bound
// to another slot is released from it first.
func (r *Robot) ChooseAction(handCardIndex, actionIndex int) error {
	if err := r.requireState(StateWaitingForInput, "choose action"); err != nil {
		return err
	}
	if err := r.requireAction(actionIndex); err != nil {
		return err
	}
	if handCardIndex < 0 || handCardIndex >= len(r.handCards) {
		return fmt.Errorf("%w: hand card index %d out of range [0, %d)", ErrInvalidIndex, handCardIndex, len(r.handCards))
	}

	for _, a := range r.actions {
		if a.handCardIndex == handCardIndex {
			a.discard()
		}
	}
	r.actions[actionIndex].insert(r.handCards[handCardIndex], handCardIndex)
	r.update()
	return nil
}

func (r *Robot) SwapActions(first, second int) error {
	if err := r.requireState(StateWaitingForInput, "swap actions"); err != nil {
		return err
	}
	if err := r.requireAction(first); err != nil {
		return err
	}
	if err := r.requireAction(second); err != nil {
		return err
	}
	r.actions[first], r.actions[second] = r.actions[second], r.actions[first]
	r.update()
	return nil
}

func (r *Robot) ToggleActionHand(actionIndex int) error {
	if err := r.requireState(StateWaitingForInput, "toggle action hand"); err != nil {
		return err
	}
	if err := r.requireAction(actionIndex); err != nil {
		return err
	}
	r.actions[actionIndex].toggleHand()
	r.update()
	return nil
}

func (r *Robot) DiscardAction(actionIndex int) error {
	if err := r.requireState(StateWaitingForInput, "discard action"); err != nil {
		return err
	}
	if err := r.requireAction(actionIndex); err != nil {
		return err
	}
	r.actions[actionIndex].discard()
	r.update()
	return nil
}

func (r *Robot) Commit() error {
	if err := r.requireState(StateWaitingForInput, "commit"); err != nil {
		return err
	}
	r.state = StateInputAccepted
	r.update()
	return nil
}

// Tick advances the input countdown. Once it runs out, every tick spent
// waiting overheats the torso. It returns the overtime damage dealt this tick.
//
// A robot destroyed outside the action phase is disassembled here.
func (r *Robot) Tick() int {
	dealt := 0
	if r.state == StateWaitingForInput && r.maxTimeToInput > 0 {
		r.timeToInput--
		if r.timeToInput <= 0 {
			before := r.torso.Health()
			r.torso.Damage(r.inputOvertimeTorsoDamage)
			dealt = before - r.torso.Health()
		}
	}

	switch r.state {
	case StatePreparing, StateWaitingForInput, StateInputAccepted:
		if r.IsDestroyed() {
			r.state = StateDisassembled
		}
	}
	r.update()
	return dealt
}

func (r *Robot) setState(state RobotState) {
	r.state = state
	r.update()
}

func (r *Robot) update() {
	if r.onUpdate != nil {
		r.onUpdate()
	}
}

// --- Copy ---

// Copy returns a deep clone sharing no mutable state with r. A safe copy
// hides what the holder should not know: deck and discard pile contents
// become blank cards, and pending input is reverted so the copy is waiting
// for input with idle action slots.
func (r *Robot) Copy(safe bool) *Robot {
	cp := &Robot{
		side:                     r.side,
		state:                    r.state,
		head:                     r.head.copy(),
		torso:                    r.torso.copy(),
		heatsink:                 r.heatsink.copy(),
		rightHand:                r.rightHand.copy(),
		leftHand:                 r.leftHand.copy(),
		roundHands:               append([]HandSide(nil), r.roundHands...),
		handSlots:                append([]CardType(nil), r.handSlots...),
		handCards:                append([]*Card(nil), r.handCards...),
		handFixed:                append([]bool(nil), r.handFixed...),
		deckCards:                append([]*Card(nil), r.deckCards...),
		discarded:                append([]*Card(nil), r.discarded...),
		rng:                      r.rng.Copy(),
		timeToInput:              r.timeToInput,
		maxTimeToInput:           r.maxTimeToInput,
		inputOvertimeTorsoDamage: r.inputOvertimeTorsoDamage,
	}
	cp.actions = make([]*Action, len(r.actions))
	for i, a := range r.actions {
		cp.actions[i] = a.copy()
	}

	if safe {
		for i := range cp.deckCards {
			cp.deckCards[i] = blank()
		}
		for i := range cp.discarded {
			cp.discarded[i] = blank()
		}
		if cp.state == StateWaitingForInput || cp.state == StateInputAccepted {
			// slot hands carried over from earlier rounds are public,
			// edits made in this input window are not
			for i, a := range cp.actions {
				a.discard()
				a.hand = cp.roundHands[i]
			}
			cp.state = StateWaitingForInput
		}
	}
	return cp
}

// --- Snapshots ---

func (r *Robot) Info() RobotInfo {
	return RobotInfo{
		State:          r.state.String(),
		Head:           r.head.Info(),
		Torso:          r.torso.Info(),
		Heatsink:       r.heatsink.Info(),
		RightHand:      r.rightHand.Info(),
		LeftHand:       r.leftHand.Info(),
		TimeToInput:    r.timeToInput,
		MaxTimeToInput: r.maxTimeToInput,
	}
}

func (r *Robot) CardsInfo() CardsInfo {
	info := CardsInfo{
		Actions:             make([]ActionInfo, len(r.actions)),
		HandCards:           make([]CardInfo, len(r.handCards)),
		DeckCardsCount:      len(r.deckCards),
		DiscardedCardsCount: len(r.discarded),
	}
	for i, a := range r.actions {
		info.Actions[i] = a.Info()
	}
	for i, c := range r.handCards {
		info.HandCards[i] = c.Info()
	}
	return info
}
