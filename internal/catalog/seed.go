package catalog

import (
	"time"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
)

// SampleGames returns the entries written into an empty catalog. now anchors
// the last-played timestamps.
func SampleGames(now time.Time) []*entity.Game {
	played := func(daysAgo int) *time.Time {
		t := now.AddDate(0, 0, -daysAgo).UTC()
		return &t
	}

	cyberpunk := entity.NewGame("赛博朋克 2077")
	cyberpunk.Names = entity.NewNameSet("Cyberpunk 2077")
	cyberpunk.Description = "一款开放世界角色扮演游戏，背景设定在未来科技高度发达的城市。"
	cyberpunk.Genre = "角色扮演"
	cyberpunk.SetReleaseYear(2020)
	cyberpunk.Installed = true
	cyberpunk.Platform = "PC"
	cyberpunk.Level = entity.LevelAdvanced
	cyberpunk.SortOrder = 1

	witcher := entity.NewGame("巫师 3: 狂猎")
	witcher.Names = entity.NewNameSet("The Witcher 3: Wild Hunt")
	witcher.Description = "一款获奖无数的开放世界角色扮演游戏，讲述猎魔人杰洛特的冒险故事。"
	witcher.Genre = "角色扮演"
	witcher.SetReleaseYear(2015)
	witcher.PlayTimeMinutes = 1200
	witcher.LastPlayed = played(5)
	witcher.Installed = true
	witcher.Platform = "PC"
	witcher.Level = entity.LevelIntermediate
	witcher.SortOrder = 2

	zelda := entity.NewGame("塞尔达传说: 旷野之息")
	zelda.Names = entity.NewNameSet("The Legend of Zelda: Breath of the Wild")
	zelda.Description = "一款革命性的开放世界动作冒险游戏，探索广阔的海拉鲁大陆。"
	zelda.Genre = "动作冒险"
	zelda.SetReleaseYear(2017)
	zelda.Installed = false
	zelda.Platform = "Switch"
	zelda.Level = entity.LevelBeginner
	zelda.SortOrder = 3

	sekiro := entity.NewGame("只狼: 影逝二度")
	sekiro.Names = entity.NewNameSet("Sekiro: Shadows Die Twice")
	sekiro.Description = "一款以日本战国时代为背景的动作冒险游戏，以高难度和独特的战斗系统著称。"
	sekiro.Genre = "动作冒险"
	sekiro.SetReleaseYear(2019)
	sekiro.PlayTimeMinutes = 800
	sekiro.LastPlayed = played(2)
	sekiro.Installed = true
	sekiro.Platform = "PC"
	sekiro.Level = entity.LevelExpert
	sekiro.SortOrder = 4

	return []*entity.Game{cyberpunk, witcher, zelda, sekiro}
}
