package builder

import (
	"context"
	"fmt"
	"strings"
)

// Builder brings one toolchain's runnable artifact into existence. It
// runs synchronously in the target's working directory and is expected
// to be idempotent: re-running may overwrite previous artifacts.
type Builder interface {
	Build(ctx context.Context) error
}

// BuildFailure reports a non-zero build exit together with the captured
// combined output of the underlying toolchain invocation.
type BuildFailure struct {
	Dir    string
	Cmd    string
	Output string
	Err    error
}

func (e *BuildFailure) Error() string {
	msg := fmt.Sprintf("build %q failed in %s: %v", e.Cmd, e.Dir, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *BuildFailure) Unwrap() error {
	return e.Err
}
