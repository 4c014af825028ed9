package session

// DifficultyTable maps a difficulty level to game-specific parameters.
type DifficultyTable[P any] map[int]P

// Lookup returns the parameters for level, falling back to level 1 when the
// level is absent and to the zero value when level 1 is absent too.
func (t DifficultyTable[P]) Lookup(level int) P {
	if p, ok := t[level]; ok {
		return p
	}
	if p, ok := t[MinDifficulty]; ok {
		return p
	}
	var zero P
	return zero
}
