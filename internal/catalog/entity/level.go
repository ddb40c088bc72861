package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the difficulty/access tier of a game. It is persisted as a raw
// integer.
type Level int

const (
	LevelBeginner     Level = 1
	LevelIntermediate Level = 2
	LevelAdvanced     Level = 3
	LevelExpert       Level = 4
	LevelAdmin        Level = 5
)

// LevelFromInt clamps a persisted value into the defined range: anything
// below Beginner (including 0 for a missing value) reads as Beginner and
// anything above Admin reads as Admin.
func LevelFromInt(n int) Level {
	switch {
	case n < int(LevelBeginner):
		return LevelBeginner
	case n > int(LevelAdmin):
		return LevelAdmin
	default:
		return Level(n)
	}
}

func (l Level) Valid() bool { return l >= LevelBeginner && l <= LevelAdmin }

func (l Level) String() string {
	switch l {
	case LevelBeginner:
		return "beginner"
	case LevelIntermediate:
		return "intermediate"
	case LevelAdvanced:
		return "advanced"
	case LevelExpert:
		return "expert"
	case LevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel accepts a level name or its ordinal.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		l := Level(n)
		if !l.Valid() {
			return 0, fmt.Errorf("level %d out of range 1..5", n)
		}
		return l, nil
	}
	for l := LevelBeginner; l <= LevelAdmin; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
