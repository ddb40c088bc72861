package entity

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// CombinePath joins a library root, a game folder and an executable path
// relative to that folder. It returns "" unless both root and folder are
// set. Either slash style in exe is accepted.
func CombinePath(root, folder, exe string) string {
	if root == "" || folder == "" {
		return ""
	}
	dir := filepath.Join(root, folder)
	if exe == "" {
		return dir
	}
	exe = strings.NewReplacer("/", string(filepath.Separator), `\`, string(filepath.Separator)).Replace(exe)
	return filepath.Join(dir, exe)
}

// SuggestFolder derives a filesystem-safe folder name from a display name.
func SuggestFolder(name string) string {
	return slug.Make(name)
}
