package builder_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/programme-lv/membench/internal/builder"
	"github.com/programme-lv/membench/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// installFakeTool puts an executable script named tool on PATH for the
// duration of the test.
func installFakeTool(t *testing.T, tool string, body string) {
	t.Helper()
	binDir := t.TempDir()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, tool), []byte(script), 0o755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestPrepareRunsSharedBuildOnce(t *testing.T) {
	invocations := filepath.Join(t.TempDir(), "invocations.log")
	t.Setenv("GPP_LOG", invocations)
	installFakeTool(t, "g++", `echo "$@" >> "$GPP_LOG"`)

	cppDir := t.TempDir()
	manual := target.Target{Name: "C++ manual delete", Dir: cppDir, Template: []string{"./m", "{n}"}, Builder: target.BuildGpp}
	unique := target.Target{Name: "C++ unique_ptr", Dir: cppDir, Template: []string{"./u", "{n}"}, Builder: target.BuildGpp}

	coord := builder.NewCoordinator(discardLogger(), "python3")
	require.NoError(t, coord.Prepare(context.Background(), manual))
	require.NoError(t, coord.Prepare(context.Background(), unique))

	data, err := os.ReadFile(invocations)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// One g++ build with two compile steps, not two builds.
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "manual.cc")
	assert.Contains(t, lines[1], "unique_ptr.cc")
}

func TestPrepareWrapsNonZeroExitInBuildFailure(t *testing.T) {
	installFakeTool(t, "javac", `echo "error: cannot find symbol" >&2; exit 1`)

	tgt := target.Target{Name: "Java", Dir: t.TempDir(), Template: []string{"java", "B", "{n}"}, Builder: target.BuildJavac}
	coord := builder.NewCoordinator(discardLogger(), "python3")

	err := coord.Prepare(context.Background(), tgt)
	require.Error(t, err)

	var bf *builder.BuildFailure
	require.ErrorAs(t, err, &bf)
	assert.Equal(t, tgt.Dir, bf.Dir)
	assert.Contains(t, bf.Cmd, "javac")
	assert.Contains(t, bf.Output, "cannot find symbol")
	assert.Contains(t, err.Error(), "cannot find symbol")
}

func TestPrepareRemembersFailure(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "count.log")
	t.Setenv("JAVAC_LOG", counter)
	installFakeTool(t, "javac", `echo run >> "$JAVAC_LOG"; exit 1`)

	tgt := target.Target{Name: "Java", Dir: t.TempDir(), Template: []string{"java", "B", "{n}"}, Builder: target.BuildJavac}
	coord := builder.NewCoordinator(discardLogger(), "python3")

	first := coord.Prepare(context.Background(), tgt)
	second := coord.Prepare(context.Background(), tgt)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, "run\n", string(data))
}

func TestPrepareNoneBuilderSucceedsWithoutTools(t *testing.T) {
	tgt := target.Target{Name: "Node.js", Dir: t.TempDir(), Template: []string{"node", "main.js", "{n}"}}
	coord := builder.NewCoordinator(discardLogger(), "python3")
	assert.NoError(t, coord.Prepare(context.Background(), tgt))
}

func TestPrepareRejectsUnknownKind(t *testing.T) {
	tgt := target.Target{Name: "X", Dir: t.TempDir(), Template: []string{"x"}, Builder: target.BuilderKind("make")}
	coord := builder.NewCoordinator(discardLogger(), "python3")

	err := coord.Prepare(context.Background(), tgt)
	require.Error(t, err)
	var bf *builder.BuildFailure
	assert.False(t, errors.As(err, &bf))
	assert.Contains(t, err.Error(), "unknown builder kind")
}
