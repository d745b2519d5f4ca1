package measure_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programme-lv/membench/internal/measure"
	"github.com/programme-lv/membench/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeHelper writes a fake measurement helper script. Helpers are
// invoked as `sh helper --cwd <dir> --json-file <path> -- <cmd...>`,
// so $2 is the working directory and $4 the result-file path.
func writeHelper(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helper.sh")
	script := "#!/bin/sh\ncwd=\"$2\"\njson=\"$4\"\nshift 5\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testTarget(t *testing.T) target.Target {
	return target.Target{
		Name:     "Rust",
		Dir:      t.TempDir(),
		Template: []string{"./bench", "{n}"},
	}
}

func TestMeasureSuccessDecoratesResult(t *testing.T) {
	helper := writeHelper(t, `printf '{"peak_mb": 123.45, "samples": 7}' > "$json"`)
	client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

	res, err := client.Measure(context.Background(), testTarget(t), 16)
	require.NoError(t, err)

	assert.Equal(t, "Rust", res.Language)
	assert.Equal(t, 16, res.Depth)
	assert.InDelta(t, 123.45, res.PeakMB, 1e-9)
	// Extra helper fields pass through opaquely.
	assert.Equal(t, float64(7), res.Extra["samples"])
}

func TestMeasurePassesCommandAndCwdToHelper(t *testing.T) {
	side := filepath.Join(t.TempDir(), "seen.txt")
	helper := writeHelper(t,
		`printf '%s\n' "$cwd" "$@" > "`+side+`"`+"\n"+
			`printf '{"peak_mb": 1}' > "$json"`)
	client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

	tgt := testTarget(t)
	_, err := client.Measure(context.Background(), tgt, 24)
	require.NoError(t, err)

	seen, err := os.ReadFile(side)
	require.NoError(t, err)
	assert.Equal(t, tgt.Dir+"\n./bench\n24\n", string(seen))
}

func TestMeasureInjectsTargetEnv(t *testing.T) {
	side := filepath.Join(t.TempDir(), "env.txt")
	helper := writeHelper(t,
		`printf '%s' "$MEMBENCH_TEST_CACHE" > "`+side+`"`+"\n"+
			`printf '{"peak_mb": 1}' > "$json"`)
	client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

	tgt := testTarget(t)
	tgt.Env = map[string]string{"MEMBENCH_TEST_CACHE": "/suite/go/.gocache"}
	_, err := client.Measure(context.Background(), tgt, 10)
	require.NoError(t, err)

	seen, err := os.ReadFile(side)
	require.NoError(t, err)
	assert.Equal(t, "/suite/go/.gocache", string(seen))
}

func TestMeasureDeletesResultFile(t *testing.T) {
	side := filepath.Join(t.TempDir(), "path.txt")
	helper := writeHelper(t,
		`printf '%s' "$json" > "`+side+`"`+"\n"+
			`printf '{"peak_mb": 1}' > "$json"`)
	client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

	_, err := client.Measure(context.Background(), testTarget(t), 10)
	require.NoError(t, err)

	resultPath, err := os.ReadFile(side)
	require.NoError(t, err)
	_, err = os.Stat(string(resultPath))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Removing an already-gone file must not hurt anything.
	assert.Error(t, os.Remove(string(resultPath)))
}

func TestMeasureMissingResultFile(t *testing.T) {
	helper := writeHelper(t, `exit 0`)
	client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

	_, err := client.Measure(context.Background(), testTarget(t), 16)
	require.Error(t, err)

	var mErr *measure.Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, measure.MissingResultFile, mErr.Kind)
	assert.Equal(t, "Rust", mErr.Language)
	assert.Equal(t, 16, mErr.Depth)
}

func TestMeasureNonZeroExit(t *testing.T) {
	helper := writeHelper(t, `echo "child refused to start" >&2; exit 3`)
	client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

	_, err := client.Measure(context.Background(), testTarget(t), 10)
	require.Error(t, err)

	var mErr *measure.Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, measure.NonZeroExit, mErr.Kind)
	assert.Contains(t, mErr.Output, "child refused to start")
}

func TestMeasureMalformedResult(t *testing.T) {
	cases := map[string]string{
		"not json":        `printf 'peak was big' > "$json"`,
		"missing peak_mb": `printf '{"samples": 3}' > "$json"`,
		"negative":        `printf '{"peak_mb": -1}' > "$json"`,
		"non-numeric":     `printf '{"peak_mb": "12"}' > "$json"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			helper := writeHelper(t, body)
			client := measure.NewClient("/bin/sh", helper, 0, discardLogger())

			_, err := client.Measure(context.Background(), testTarget(t), 10)
			require.Error(t, err)

			var mErr *measure.Error
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, measure.MalformedResult, mErr.Kind)
		})
	}
}

func TestMeasureLaunchFailure(t *testing.T) {
	client := measure.NewClient("/nonexistent/runner", "helper.py", 0, discardLogger())

	_, err := client.Measure(context.Background(), testTarget(t), 10)
	require.Error(t, err)

	var mErr *measure.Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, measure.LaunchFailed, mErr.Kind)
}

func TestMeasureTimeout(t *testing.T) {
	helper := writeHelper(t, `sleep 30`)
	client := measure.NewClient("/bin/sh", helper, 100*time.Millisecond, discardLogger())

	start := time.Now()
	_, err := client.Measure(context.Background(), testTarget(t), 10)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)

	var mErr *measure.Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, measure.Timeout, mErr.Kind)
}
