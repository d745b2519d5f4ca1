package measure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/membench/internal/target"
	"golang.org/x/sync/errgroup"
)

// Client obtains peak-memory readings for external programs by
// delegating monitoring to an out-of-process helper. Per request it
// spawns `runner helper --cwd <dir> --json-file <path> -- <argv...>`,
// blocks until the helper exits, and reads the result object back from
// the temp file. The helper must write the file atomically on success
// and must not write it on failure.
type Client struct {
	runner  string
	helper  string
	timeout time.Duration
	log     *slog.Logger
}

// NewClient configures a measurement client. runner invokes the helper
// script (the original suite ships a Python helper); timeout zero
// means no deadline.
func NewClient(runner string, helper string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		runner:  runner,
		helper:  helper,
		timeout: timeout,
		log:     log,
	}
}

// Measure runs one (target, depth) request and returns the decorated
// reading. Any failure is an *Error; all kinds are fatal and the
// caller is expected to halt the session.
func (c *Client) Measure(ctx context.Context, tgt target.Target, depth int) (Result, error) {
	fail := func(kind ErrorKind, output string, err error) (Result, error) {
		return Result{}, &Error{
			Kind:     kind,
			Language: tgt.Name,
			Depth:    depth,
			Output:   output,
			Err:      err,
		}
	}

	resultPath := filepath.Join(os.TempDir(), fmt.Sprintf("membench-%s.json", uuid.NewString()))
	// Best effort either way: on the happy path the file was already
	// read, on failure the helper may never have created it.
	defer func() { _ = os.Remove(resultPath) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{c.helper, "--cwd", tgt.Dir, "--json-file", resultPath, "--"}
	args = append(args, tgt.Command(depth)...)

	cmd := exec.CommandContext(ctx, c.runner, args...)
	cmd.Env = mergedEnv(tgt.Env)
	// Put the helper in its own process group so a deadline kills the
	// benchmark child as well, not just the helper.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fail(LaunchFailed, "", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fail(LaunchFailed, "", err)
	}

	c.log.Debug("spawning measurement helper",
		slog.String("target", tgt.Name),
		slog.Int("depth", depth),
		slog.String("result_file", resultPath))

	if err := cmd.Start(); err != nil {
		return fail(LaunchFailed, "", err)
	}

	var outBytes, errBytes []byte
	var g errgroup.Group
	g.Go(func() error {
		var readErr error
		outBytes, readErr = io.ReadAll(stdout)
		return readErr
	})
	g.Go(func() error {
		var readErr error
		errBytes, readErr = io.ReadAll(stderr)
		return readErr
	})
	drainErr := g.Wait()
	waitErr := cmd.Wait()
	captured := string(outBytes) + string(errBytes)

	if waitErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fail(Timeout, captured, fmt.Errorf("no result within %s", c.timeout))
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fail(NonZeroExit, captured, waitErr)
		}
		return fail(LaunchFailed, captured, waitErr)
	}
	if drainErr != nil {
		return fail(LaunchFailed, captured, drainErr)
	}

	// A zero exit without a result file is a protocol violation, not a
	// success with missing data.
	raw, err := os.ReadFile(resultPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail(MissingResultFile, captured, fmt.Errorf("helper exited 0 but wrote no result to %s", resultPath))
		}
		return fail(MissingResultFile, captured, err)
	}

	peak, extra, err := parseResultFile(raw)
	if err != nil {
		return fail(MalformedResult, string(raw), err)
	}

	return Result{
		Language: tgt.Name,
		Depth:    depth,
		PeakMB:   peak,
		Extra:    extra,
	}, nil
}

// mergedEnv overlays the target's environment overrides onto the
// inherited process environment; later entries win.
func mergedEnv(overrides map[string]string) []string {
	env := os.Environ()
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}
