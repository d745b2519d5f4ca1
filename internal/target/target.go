package target

import (
	"fmt"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
)

// Placeholder is the template token that Command replaces with the
// decimal form of the requested depth.
const Placeholder = "{n}"

// BuilderKind selects the toolchain that prepares a target's runnable
// artifact before measurement.
type BuilderKind string

const (
	BuildNone   BuilderKind = "none"
	BuildGo     BuilderKind = "go"
	BuildJavac  BuilderKind = "javac"
	BuildCargo  BuilderKind = "cargo"
	BuildGpp    BuilderKind = "g++"
	BuildDotnet BuilderKind = "dotnet"
	BuildNpm    BuilderKind = "npm"
	BuildPip    BuilderKind = "pip"
)

func ParseBuilderKind(s string) (BuilderKind, error) {
	switch BuilderKind(s) {
	case BuildNone, BuildGo, BuildJavac, BuildCargo, BuildGpp, BuildDotnet, BuildNpm, BuildPip:
		return BuilderKind(s), nil
	case "":
		return BuildNone, nil
	}
	return "", fmt.Errorf("unknown builder kind %q", s)
}

// Target is one language's benchmark implementation together with its
// build and invocation recipe. Immutable after registry construction.
type Target struct {
	Name     string
	Dir      string
	Template []string
	Env      map[string]string
	Builder  BuilderKind
}

// Command produces the argv for the given depth by substituting every
// template token equal to Placeholder with the decimal form of depth.
// All other tokens pass through unchanged and in original order.
func (t Target) Command(depth int) []string {
	cmd := make([]string, 0, len(t.Template))
	for _, token := range t.Template {
		if token == Placeholder {
			cmd = append(cmd, strconv.Itoa(depth))
		} else {
			cmd = append(cmd, token)
		}
	}
	return cmd
}

// Registry is a static catalog of benchmark targets in declaration order.
type Registry struct {
	targets []Target
}

func NewRegistry(targets []Target) (*Registry, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets declared")
	}
	names := mapset.NewSetWithSize[string](len(targets))
	for _, t := range targets {
		if t.Name == "" {
			return nil, fmt.Errorf("target with empty name")
		}
		if !names.Add(t.Name) {
			return nil, fmt.Errorf("duplicate target name %q", t.Name)
		}
		if t.Dir == "" {
			return nil, fmt.Errorf("target %q has no working directory", t.Name)
		}
		if len(t.Template) == 0 {
			return nil, fmt.Errorf("target %q has an empty invocation template", t.Name)
		}
		for i, token := range t.Template {
			if token == "" {
				return nil, fmt.Errorf("target %q has an empty template token at index %d", t.Name, i)
			}
		}
	}
	return &Registry{targets: targets}, nil
}

// Targets returns the catalog in declaration order.
func (r *Registry) Targets() []Target {
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.targets))
	for i, t := range r.targets {
		names[i] = t.Name
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.targets)
}
