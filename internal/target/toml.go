package target

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// specTarget maps to a [[targets]] entry in a targets.toml file.
type specTarget struct {
	Name     string            `toml:"name"`
	Dir      string            `toml:"dir"`
	Template []string          `toml:"template"`
	Env      map[string]string `toml:"env"`
	Builder  string            `toml:"builder"`
}

type specRoot struct {
	Targets []specTarget `toml:"targets"`
}

// LoadTOML reads a targets.toml suite description. Relative target
// directories are resolved against root.
func LoadTOML(path string, root string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}
	var spec specRoot
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse targets TOML: %w", err)
	}

	targets := make([]Target, 0, len(spec.Targets))
	for _, s := range spec.Targets {
		kind, err := ParseBuilderKind(s.Builder)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", s.Name, err)
		}
		dir := s.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		targets = append(targets, Target{
			Name:     s.Name,
			Dir:      dir,
			Template: s.Template,
			Env:      s.Env,
			Builder:  kind,
		})
	}
	return targets, nil
}
