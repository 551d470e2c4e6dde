package game

import (
	"fmt"
	"sort"
)

// CardRegistry maps card types to their constructor functions.
var CardRegistry = map[CardType]func() *Card{
	CardBlank:     BlankCard,
	CardUp1:       Up1Card,
	CardUp2:       Up2Card,
	CardUp3:       Up3Card,
	CardDown1:     Down1Card,
	CardDown2:     Down2Card,
	CardDown3:     Down3Card,
	CardHandFlip:  HandFlipCard,
	CardPunch:     PunchCard,
	CardUpPunch:   UpPunchCard,
	CardDownPunch: DownPunchCard,
	CardFlipPunch: FlipPunchCard,
	CardCharge:    ChargeCard,
	CardPushUp:    PushUpCard,
	CardPushDown:  PushDownCard,
	CardRepair:    RepairCard,
	CardReinforce: ReinforceCard,
}

// cards are stateless, so one instance per type is shared by every pile.
var catalogue = func() map[CardType]*Card {
	m := make(map[CardType]*Card, len(CardRegistry))
	for t, ctor := range CardRegistry {
		m[t] = ctor()
	}
	return m
}()

// LookupCard returns the catalogue card for the given type.
func LookupCard(t CardType) (*Card, error) {
	card, ok := catalogue[t]
	if !ok {
		return nil, fmt.Errorf("%w: card type %q not found in registry", ErrInvalidIdentifier, t)
	}
	return card, nil
}

// MustLookupCard looks up a card and panics if the type is unknown.
// Use it only for built-in card tables.
func MustLookupCard(t CardType) *Card {
	card, err := LookupCard(t)
	if err != nil {
		panic(err)
	}
	return card
}

// blank is the default card of every action slot.
func blank() *Card {
	return catalogue[CardBlank]
}

// AllCardTypes returns every registered card type in a stable order.
func AllCardTypes() []CardType {
	types := make([]CardType, 0, len(CardRegistry))
	for t := range CardRegistry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// NewDeck builds an unshuffled deck from a card type → quantity table.
// Types are expanded in sorted order so equal tables give equal decks.
func NewDeck(counts map[CardType]int) ([]*Card, error) {
	types := make([]CardType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var deck []*Card
	for _, t := range types {
		card, err := LookupCard(t)
		if err != nil {
			return nil, err
		}
		if counts[t] < 0 {
			return nil, fmt.Errorf("%w: negative count %d for card %q", ErrInvalidIndex, counts[t], t)
		}
		for i := 0; i < counts[t]; i++ {
			deck = append(deck, card)
		}
	}
	return deck, nil
}
