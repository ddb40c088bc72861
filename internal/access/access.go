// Package access decides who may play which game and which actions each
// application mode allows.
package access

import (
	"fmt"
	"strings"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
)

// UserLevel is the permission tier of the person at the keyboard.
type UserLevel int

const (
	UserNormal  UserLevel = 1
	UserPremium UserLevel = 3
	UserAdmin   UserLevel = 5
)

func (u UserLevel) String() string {
	switch u {
	case UserNormal:
		return "normal"
	case UserPremium:
		return "premium"
	case UserAdmin:
		return "admin"
	default:
		return fmt.Sprintf("user(%d)", int(u))
	}
}

// ParseUserLevel accepts normal, premium or admin.
func ParseUserLevel(s string) (UserLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return UserNormal, nil
	case "premium":
		return UserPremium, nil
	case "admin":
		return UserAdmin, nil
	default:
		return 0, fmt.Errorf("unknown user level %q", s)
	}
}

// CanPlay reports whether user may launch a game of the given level.
func CanPlay(user UserLevel, level entity.Level) bool {
	return int(user) >= int(level)
}

// Mode is the application mode. Play is read-only; Manage allows editing.
type Mode int

const (
	ModePlay Mode = iota
	ModeManage
)

func (m Mode) String() string {
	if m == ModeManage {
		return "manage"
	}
	return "play"
}

// ParseMode accepts play or manage.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "play", "":
		return ModePlay, nil
	case "manage":
		return ModeManage, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Action is something a user can ask the application to do.
type Action int

const (
	ActionLaunchGame Action = iota
	ActionAddGame
	ActionEditGame
	ActionDeleteGame
	ActionImportGames
	ActionEditGameCover
	ActionEditGameScreenshots
	ActionManageGameSaves
	ActionManageGameMods
	ActionViewGameInfo
	ActionViewStatistics
	ActionChangeDisplayMode
	ActionChangeTheme
	ActionBatchEdit
	ActionManageLibraries
)

var playModeActions = map[Action]bool{
	ActionLaunchGame:        true,
	ActionViewGameInfo:      true,
	ActionViewStatistics:    true,
	ActionChangeDisplayMode: true,
	ActionChangeTheme:       true,
}

// CanPerform reports whether mode permits action.
func CanPerform(mode Mode, action Action) bool {
	switch mode {
	case ModePlay:
		return playModeActions[action]
	case ModeManage:
		return true
	default:
		return false
	}
}
