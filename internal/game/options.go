package game

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// CardRandom marks a hand slot that is drawn from the deck instead of being fixed.
const CardRandom CardType = "random"

// RobotOptions configures one robot.
type RobotOptions struct {
	ActionsCount             int `yaml:"actions_count"`
	CardsCount               int `yaml:"cards_count"`
	MaxTimeToInput           int `yaml:"max_time_to_input"` // ticks, 0 means unlimited
	InputOvertimeTorsoDamage int `yaml:"input_overtime_torso_damage"`

	HeadHealth     int `yaml:"head_health"`
	TorsoHealth    int `yaml:"torso_health"`
	HeatsinkHealth int `yaml:"heatsink_health"`

	RightHandPosition int `yaml:"right_hand_position"`
	LeftHandPosition  int `yaml:"left_hand_position"`

	// FixedCards occupy the first hand slots every round. They are not part
	// of the deck and never reach the discard pile.
	FixedCards []CardType        `yaml:"fixed_cards"`
	DeckCards  map[CardType]int `yaml:"deck_cards"`
}

// Options configures a whole match.
type Options struct {
	Seed           string `yaml:"seed"`
	TickIntervalMs int    `yaml:"tick_interval_ms"`

	Left  RobotOptions `yaml:"-"`
	Right RobotOptions `yaml:"-"`
}

func DefaultRobotOptions() RobotOptions {
	return RobotOptions{
		ActionsCount:             3,
		CardsCount:               5,
		MaxTimeToInput:           5,
		InputOvertimeTorsoDamage: 1,
		HeadHealth:               40,
		TorsoHealth:              80,
		HeatsinkHealth:           60,
		RightHandPosition:        3,
		LeftHandPosition:         5,
		FixedCards:               []CardType{CardPunch, CardUp1, CardDown1},
		DeckCards: map[CardType]int{
			CardUp2:       2,
			CardUp3:       1,
			CardDown2:     2,
			CardDown3:     1,
			CardHandFlip:  1,
			CardPunch:     2,
			CardUpPunch:   1,
			CardDownPunch: 1,
			CardFlipPunch: 1,
			CardCharge:    2,
			CardPushUp:    2,
			CardPushDown:  2,
			CardRepair:    2,
			CardReinforce: 1,
		},
	}
}

func DefaultOptions() Options {
	return Options{
		Seed:           "punch-cards",
		TickIntervalMs: 1000,
		Left:           DefaultRobotOptions(),
		Right:          DefaultRobotOptions(),
	}
}

func (o Options) TickInterval() time.Duration {
	return time.Duration(o.TickIntervalMs) * time.Millisecond
}

// Robot returns the options of one side.
func (o Options) Robot(side Side) RobotOptions {
	if side == SideLeft {
		return o.Left
	}
	return o.Right
}

// Clone returns a copy sharing no maps or slices with o.
func (o RobotOptions) Clone() RobotOptions {
	o.FixedCards = slices.Clone(o.FixedCards)
	o.DeckCards = maps.Clone(o.DeckCards)
	return o
}

// HandSlots returns one entry per drawn hand card: a fixed card type or CardRandom.
func (o RobotOptions) HandSlots() []CardType {
	slots := make([]CardType, o.CardsCount)
	for i := range slots {
		slots[i] = CardRandom
		if i < len(o.FixedCards) {
			slots[i] = o.FixedCards[i]
		}
	}
	return slots
}

func (o RobotOptions) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidIndex}, args...)...))
		}
	}
	check(o.ActionsCount >= 1, "actions_count must be at least 1, got %d", o.ActionsCount)
	check(o.CardsCount >= 0, "cards_count must not be negative, got %d", o.CardsCount)
	check(o.MaxTimeToInput >= 0, "max_time_to_input must not be negative, got %d", o.MaxTimeToInput)
	check(o.InputOvertimeTorsoDamage >= 0, "input_overtime_torso_damage must not be negative, got %d", o.InputOvertimeTorsoDamage)
	check(o.HeadHealth >= 1, "head_health must be positive, got %d", o.HeadHealth)
	check(o.TorsoHealth >= 1, "torso_health must be positive, got %d", o.TorsoHealth)
	check(o.HeatsinkHealth >= 1, "heatsink_health must be positive, got %d", o.HeatsinkHealth)
	check(o.RightHandPosition >= HandPositionMin && o.RightHandPosition <= HandPositionMax,
		"right_hand_position must be in %d..%d, got %d", HandPositionMin, HandPositionMax, o.RightHandPosition)
	check(o.LeftHandPosition >= HandPositionMin && o.LeftHandPosition <= HandPositionMax,
		"left_hand_position must be in %d..%d, got %d", HandPositionMin, HandPositionMax, o.LeftHandPosition)

	for _, t := range o.FixedCards {
		if t == CardRandom {
			continue
		}
		if _, err := LookupCard(t); err != nil {
			errs = append(errs, fmt.Errorf("fixed_cards: %w", err))
		}
	}
	for t, count := range o.DeckCards {
		if _, err := LookupCard(t); err != nil {
			errs = append(errs, fmt.Errorf("deck_cards: %w", err))
		}
		check(count >= 0, "deck_cards: count of %q must not be negative, got %d", t, count)
	}
	return errors.Join(errs...)
}

func (o Options) Validate() error {
	var errs []error
	if o.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick_interval_ms must be positive, got %d", ErrInvalidIndex, o.TickIntervalMs))
	}
	if err := o.Left.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("left: %w", err))
	}
	if err := o.Right.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("right: %w", err))
	}
	return errors.Join(errs...)
}

// --- YAML loading ---

// optionsFile is the on-disk layout. Sections are applied in order on top of
// the defaults: robot (both sides), then left and right.
type optionsFile struct {
	Seed           *string   `yaml:"seed"`
	TickIntervalMs *int      `yaml:"tick_interval_ms"`
	Robot          yaml.Node `yaml:"robot"`
	Left           yaml.Node `yaml:"left"`
	Right          yaml.Node `yaml:"right"`
}

// ParseOptions parses YAML options layered over DefaultOptions and validates them.
func ParseOptions(data []byte) (Options, error) {
	var f optionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Options{}, fmt.Errorf("parse options YAML: %w", err)
	}

	opts := DefaultOptions()
	if f.Seed != nil {
		opts.Seed = *f.Seed
	}
	if f.TickIntervalMs != nil {
		opts.TickIntervalMs = *f.TickIntervalMs
	}

	base := DefaultRobotOptions()
	if err := decodeRobotSection(&f.Robot, &base); err != nil {
		return Options{}, fmt.Errorf("robot: %w", err)
	}
	opts.Left = base.Clone()
	if err := decodeRobotSection(&f.Left, &opts.Left); err != nil {
		return Options{}, fmt.Errorf("left: %w", err)
	}
	opts.Right = base.Clone()
	if err := decodeRobotSection(&f.Right, &opts.Right); err != nil {
		return Options{}, fmt.Errorf("right: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions reads and parses an options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return ParseOptions(data)
}

// decodeRobotSection decodes a mapping onto pre-filled options. A deck_cards
// table in the section replaces the inherited one instead of merging with it.
func decodeRobotSection(node *yaml.Node, into *RobotOptions) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "deck_cards":
			into.DeckCards = nil
		case "fixed_cards":
			into.FixedCards = nil
		}
	}
	return node.Decode(into)
}

// MarshalYAML writes options in the layout ParseOptions reads.
func (o Options) MarshalYAML() (any, error) {
	return struct {
		Seed           string       `yaml:"seed"`
		TickIntervalMs int          `yaml:"tick_interval_ms"`
		Left           RobotOptions `yaml:"left"`
		Right          RobotOptions `yaml:"right"`
	}{o.Seed, o.TickIntervalMs, o.Left, o.Right}, nil
}
