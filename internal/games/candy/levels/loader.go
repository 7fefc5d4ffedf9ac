package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed pack/*.yaml
var builtinPack embed.FS

// Loader reads level files from a file system.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader for the directory root on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: root}
}

// Builtin returns a loader for the levels compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinPack, "pack")
	if err != nil {
		panic(err)
	}
	return &Loader{fsys: sub, root: "builtin"}
}

// LoadAll loads every .yaml/.yml file below the root, sorted by id.
// Files that fail to parse or validate are skipped.
func (l *Loader) LoadAll() ([]Level, error) {
	var out []Level
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLevelFile(p) {
			return nil
		}
		lvl, err := l.LoadFile(p)
		if err != nil {
			return nil
		}
		out = append(out, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walk %s: %w", l.root, err)
	}

	slices.SortFunc(out, func(a, b Level) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// LoadFile loads and validates one level file, relative to the root.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("levels: read %s: %w", p, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return Level{}, fmt.Errorf("levels: %s: %w", p, err)
	}
	lvl.FilePath = path.Join(l.root, p)
	return lvl, nil
}

// LoadByID returns the level with the given id.
func (l *Loader) LoadByID(id string) (Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range all {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("levels: level %q not found in %s", id, l.root)
}

// Parse decodes and validates a YAML level.
func Parse(data []byte) (Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return Level{}, err
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}
	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

func isLevelFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
