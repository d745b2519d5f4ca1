package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/programme-lv/membench/internal/target"
	"github.com/puzpuzpuz/xsync/v3"
)

// Coordinator resolves each target's builder by its declared kind and
// runs every distinct (kind, dir) build exactly once per session.
// Targets sharing a toolchain directory, like the two C++ variants,
// trigger a single build.
type buildOutcome struct {
	err error
}

type Coordinator struct {
	log    *slog.Logger
	python string
	done   *xsync.MapOf[string, buildOutcome]
}

func NewCoordinator(log *slog.Logger, python string) *Coordinator {
	return &Coordinator{
		log:    log,
		python: python,
		done:   xsync.NewMapOf[string, buildOutcome](),
	}
}

// Prepare ensures the target's runnable artifact exists. The first
// build failure is remembered and returned again for any other target
// that shares the same (kind, dir) build.
func (c *Coordinator) Prepare(ctx context.Context, tgt target.Target) error {
	b, err := c.resolve(tgt)
	if err != nil {
		return err
	}

	key := string(tgt.Builder) + "\x00" + tgt.Dir
	outcome, cached := c.done.LoadOrCompute(key, func() buildOutcome {
		c.log.Info("building target",
			slog.String("target", tgt.Name),
			slog.String("builder", string(tgt.Builder)),
			slog.String("dir", tgt.Dir))
		return buildOutcome{err: b.Build(ctx)}
	})
	if cached {
		c.log.Debug("build already done for this session",
			slog.String("target", tgt.Name),
			slog.String("dir", tgt.Dir))
	}
	return outcome.err
}

func (c *Coordinator) resolve(tgt target.Target) (Builder, error) {
	switch tgt.Builder {
	case target.BuildNone, "":
		return noneBuilder{}, nil
	case target.BuildGo:
		return goBuilder{dir: tgt.Dir}, nil
	case target.BuildJavac:
		return javacBuilder{dir: tgt.Dir}, nil
	case target.BuildCargo:
		return cargoBuilder{dir: tgt.Dir}, nil
	case target.BuildGpp:
		return gppBuilder{dir: tgt.Dir}, nil
	case target.BuildDotnet:
		return dotnetBuilder{dir: tgt.Dir}, nil
	case target.BuildNpm:
		return npmBuilder{dir: tgt.Dir}, nil
	case target.BuildPip:
		return pipBuilder{dir: tgt.Dir, python: c.python}, nil
	}
	return nil, fmt.Errorf("target %q declares unknown builder kind %q", tgt.Name, tgt.Builder)
}
