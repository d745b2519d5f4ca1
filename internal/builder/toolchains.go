package builder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// runStep executes one toolchain command in dir, capturing combined
// output. extraEnv entries are appended over the inherited environment.
func runStep(ctx context.Context, dir string, extraEnv []string, argv ...string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), extraEnv...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &BuildFailure{
			Dir:    dir,
			Cmd:    strings.Join(argv, " "),
			Output: string(out),
			Err:    err,
		}
	}
	return nil
}

type noneBuilder struct{}

func (noneBuilder) Build(ctx context.Context) error { return nil }

// goBuilder redirects GOCACHE into the target directory so the build
// cache stays target-local.
type goBuilder struct {
	dir string
}

func (b goBuilder) Build(ctx context.Context) error {
	cache := "GOCACHE=" + filepath.Join(b.dir, ".gocache")
	return runStep(ctx, b.dir, []string{cache}, "go", "build", "-o", "binarytrees", "main.go")
}

type javacBuilder struct {
	dir string
}

func (b javacBuilder) Build(ctx context.Context) error {
	return runStep(ctx, b.dir, nil, "javac", "BinaryTrees.java")
}

// cargoBuilder prepends ~/.cargo/bin so rustup-managed toolchains are
// found even when the orchestrator runs outside a login shell.
type cargoBuilder struct {
	dir string
}

func (b cargoBuilder) Build(ctx context.Context) error {
	var extraEnv []string
	if home, err := os.UserHomeDir(); err == nil {
		cargoBin := filepath.Join(home, ".cargo", "bin")
		extraEnv = []string{fmt.Sprintf("PATH=%s%c%s", cargoBin, os.PathListSeparator, os.Getenv("PATH"))}
	}
	return runStep(ctx, b.dir, extraEnv, "cargo", "build", "--release")
}

// gppBuilder compiles both C++ variants; the two C++ targets share one
// working directory and therefore one build.
type gppBuilder struct {
	dir string
}

func (b gppBuilder) Build(ctx context.Context) error {
	err := runStep(ctx, b.dir, nil, "g++", "-O3", "-std=c++20", "manual.cc", "-o", "binarytrees_manual")
	if err != nil {
		return err
	}
	return runStep(ctx, b.dir, nil, "g++", "-O3", "-std=c++20", "unique_ptr.cc", "-o", "binarytrees_unique")
}

type dotnetBuilder struct {
	dir string
}

func (b dotnetBuilder) Build(ctx context.Context) error {
	return runStep(ctx, b.dir, nil,
		"dotnet", "publish", "-c", "Release", "-r", "linux-x64", "--self-contained", "true")
}

type npmBuilder struct {
	dir string
}

func (b npmBuilder) Build(ctx context.Context) error {
	return runStep(ctx, b.dir, nil, "npm", "install")
}

type pipBuilder struct {
	dir    string
	python string
}

func (b pipBuilder) Build(ctx context.Context) error {
	return runStep(ctx, b.dir, nil, b.python, "-m", "pip", "install", "-r", "requirements.txt")
}
