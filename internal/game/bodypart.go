package game

// Bodypart is a robot part with health clamped to [0, MaxHealth].
type Bodypart struct {
	name      string
	health    int
	maxHealth int
}

func newBodypart(name string, health int) *Bodypart {
	return &Bodypart{name: name, health: health, maxHealth: health}
}

// disposableBodypart stands in for lanes outside the robot. Damage dealt to it goes nowhere.
func disposableBodypart() *Bodypart {
	return &Bodypart{name: "nothing"}
}

func (b *Bodypart) Name() string {
	return b.name
}

func (b *Bodypart) Health() int {
	return b.health
}

func (b *Bodypart) MaxHealth() int {
	return b.maxHealth
}

// SetHealth sets health, clamped to [0, MaxHealth].
func (b *Bodypart) SetHealth(health int) {
	b.health = max(0, min(health, b.maxHealth))
}

// Damage lowers health by amount.
func (b *Bodypart) Damage(amount int) {
	b.SetHealth(b.health - amount)
}

// Heal raises health by amount, never beyond MaxHealth.
func (b *Bodypart) Heal(amount int) {
	b.SetHealth(b.health + amount)
}

// SetMaxHealth changes the maximum and re-clamps current health.
func (b *Bodypart) SetMaxHealth(maxHealth int) {
	b.maxHealth = max(0, maxHealth)
	b.SetHealth(b.health)
}

func (b *Bodypart) IsDestroyed() bool {
	return b.health == 0
}

func (b *Bodypart) copy() *Bodypart {
	cp := *b
	return &cp
}

func (b *Bodypart) Info() BodypartInfo {
	return BodypartInfo{Health: b.health, MaxHealth: b.maxHealth}
}
