package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// DiskDir is searched before the embedded copies so edited prefabs and
// scripts take effect without a rebuild. Empty disables the lookup.
var DiskDir = "prefabs"

// Load returns a prefab by name. "player", "player.yaml" and
// "prefabs/player.yaml" all resolve to the same file.
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, prefabPath(name))
}

// LoadScript returns a tengo input script by stem or path.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, scriptPath(name))
}

// ModTime reports when the disk copy of a prefab last changed. ok is false
// when the prefab only exists embedded.
func ModTime(name string) (time.Time, bool) {
	info, err := statDisk(prefabPath(name))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func read(embedded fs.ReadFileFS, rel string) ([]byte, error) {
	if DiskDir != "" {
		if data, err := os.ReadFile(filepath.Join(DiskDir, filepath.FromSlash(rel))); err == nil {
			return data, nil
		}
	}
	return embedded.ReadFile(rel)
}

func statDisk(rel string) (os.FileInfo, error) {
	if DiskDir == "" {
		return nil, os.ErrNotExist
	}
	return os.Stat(filepath.Join(DiskDir, filepath.FromSlash(rel)))
}

func prefabPath(name string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	if rel != "" && path.Ext(rel) == "" {
		rel += ".yaml"
	}
	return rel
}

func scriptPath(name string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	rel = strings.TrimPrefix(rel, "scripts/")
	if path.Ext(rel) != ".tengo" {
		rel += ".tengo"
	}
	return path.Join("scripts", rel)
}
