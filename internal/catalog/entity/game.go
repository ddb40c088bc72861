package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/NemecSoft/YunGame/pkg/utilities"
)

// Game is one catalog entry. Callers own their copies; the store persists
// whole records.
type Game struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	AlternativeName string     `json:"alternative_name,omitempty"`
	Version         string     `json:"version,omitempty"`
	Description     string     `json:"description,omitempty"`
	Genre           string     `json:"genre,omitempty"`
	Platform        string     `json:"platform,omitempty"`
	Names           NameSet    `json:"names"`
	SortOrder       int        `json:"sort_order"`
	LibraryPath     string     `json:"library_path,omitempty"`
	GameFolder      string     `json:"game_folder,omitempty"`
	ExecutablePath  string     `json:"executable_path,omitempty"`
	Path            string     `json:"path,omitempty"`
	IconPath        string     `json:"icon_path,omitempty"`
	CoverPath       string     `json:"cover_path,omitempty"`
	Screenshot1     string     `json:"screenshot1,omitempty"`
	Screenshot2     string     `json:"screenshot2,omitempty"`
	Screenshot3     string     `json:"screenshot3,omitempty"`
	Screenshot4     string     `json:"screenshot4,omitempty"`
	Level           Level      `json:"level"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	PlayTimeMinutes int        `json:"play_time_minutes"`
	LastPlayed      *time.Time `json:"last_played,omitempty"`
	Installed       bool       `json:"installed"`
}

// NewGame returns an entry with a fresh id and Beginner level.
func NewGame(name string) *Game {
	return &Game{ID: utilities.NewEntryID(), Name: name, Level: LevelBeginner}
}

// EffectivePath is the launchable path. Library path plus folder take
// precedence; the literal Path is used only when either is blank.
func (g *Game) EffectivePath() string {
	if p := CombinePath(g.LibraryPath, g.GameFolder, g.ExecutablePath); p != "" {
		return p
	}
	return g.Path
}

// ReleaseYear returns the year of ReleaseDate, or 0 when unset.
func (g *Game) ReleaseYear() int {
	if g.ReleaseDate == nil {
		return 0
	}
	return g.ReleaseDate.Year()
}

// SetReleaseYear sets ReleaseDate to January 1st of year; year <= 0 clears it.
func (g *Game) SetReleaseYear(year int) {
	if year <= 0 {
		g.ReleaseDate = nil
		return
	}
	d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	g.ReleaseDate = &d
}
