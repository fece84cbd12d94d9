package engine

import (
	"fmt"
	"strings"
)

// Config controls a search session.
type Config struct {
	Depth         int   // Plies searched below each root move
	TableCapacity int64 // Transposition table bound (0 = unbounded map)
	VerifyHits    bool  // Check a second position signature on every table hit
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return DifficultySettings[Medium]
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 plies
	Medium                   // 3 plies
	Hard                     // 4 plies, bounded table
)

// DifficultySettings maps difficulty to a search configuration.
var DifficultySettings = map[Difficulty]Config{
	Easy:   {Depth: 1, VerifyHits: true},
	Medium: {Depth: 2, VerifyHits: true},
	Hard:   {Depth: 3, TableCapacity: 1 << 20, VerifyHits: true},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty maps "easy", "medium" or "hard" to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Validate reports whether c can drive a search.
func (c Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("search depth %d is negative", c.Depth)
	}
	if c.TableCapacity < 0 {
		return fmt.Errorf("table capacity %d is negative", c.TableCapacity)
	}
	return nil
}
