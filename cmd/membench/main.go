package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/membench/internal/builder"
	"github.com/programme-lv/membench/internal/environment"
	"github.com/programme-lv/membench/internal/gatherer"
	"github.com/programme-lv/membench/internal/gatherer/natsgath"
	"github.com/programme-lv/membench/internal/gatherer/sqsgath"
	"github.com/programme-lv/membench/internal/gatherer/termgath"
	"github.com/programme-lv/membench/internal/measure"
	"github.com/programme-lv/membench/internal/report"
	"github.com/programme-lv/membench/internal/session"
	"github.com/programme-lv/membench/internal/target"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "membench",
		Usage: "cross-language peak-memory benchmark orchestrator",
		Commands: []*cli.Command{
			runCmd(),
			targetsCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func suiteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "root",
			Usage: "benchmark suite root directory (default: current directory)",
		},
		&cli.StringFlag{
			Name:  "runner",
			Usage: "interpreter used to invoke the measurement helper",
		},
		&cli.StringFlag{
			Name:  "targets",
			Usage: "optional targets.toml describing the suite (default: builtin set)",
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "build every target, measure every (depth, target) pair, print the comparison table",
		Flags: append(suiteFlags(),
			&cli.IntSliceFlag{
				Name:  "depths",
				Usage: "workload sizes to measure, in order",
				Value: []int{10, 16, 24},
			},
			&cli.StringFlag{
				Name:  "helper",
				Usage: "path to the measurement helper script",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-measurement deadline (0 disables)",
			},
		),
		Action: runAction,
	}
}

func targetsCmd() *cli.Command {
	return &cli.Command{
		Name:  "targets",
		Usage: "list the resolved target registry",
		Flags: suiteFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := readConfig(cmd)
			reg, err := resolveRegistry(cmd, cfg)
			if err != nil {
				return err
			}
			for _, t := range reg.Targets() {
				fmt.Printf("%-20s builder=%-7s dir=%s\n  %s\n",
					t.Name, t.Builder, t.Dir, strings.Join(t.Template, " "))
			}
			return nil
		},
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg := readConfig(cmd)
	if timeout := cmd.Duration("timeout"); timeout > 0 {
		cfg.MeasureTimeout = timeout
	}
	if helper := cmd.String("helper"); helper != "" {
		cfg.HelperScript = helper
	}
	if cfg.HelperScript == "" {
		cfg.HelperScript = filepath.Join(cfg.RootDir, "scripts", "measure_memory.py")
	}

	depths := cmd.IntSlice("depths")
	if len(depths) == 0 {
		return fmt.Errorf("no depths requested")
	}
	for _, d := range depths {
		if d <= 0 {
			return fmt.Errorf("depth must be a positive integer, got %d", d)
		}
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
	}))

	reg, err := resolveRegistry(cmd, cfg)
	if err != nil {
		return err
	}

	gath, err := buildGatherers(cfg)
	if err != nil {
		return err
	}

	coord := builder.NewCoordinator(log, cfg.Runner)
	client := measure.NewClient(cfg.Runner, cfg.HelperScript, cfg.MeasureTimeout, log)
	sess := session.New(log, reg, coord, client, gath)

	results, err := sess.Run(ctx, depths)
	if err != nil {
		return err
	}

	fmt.Println(report.Render(results))
	return nil
}

func readConfig(cmd *cli.Command) environment.Config {
	cfg := environment.Read()
	if root := cmd.String("root"); root != "" {
		cfg.RootDir = root
	}
	if cfg.RootDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.RootDir = wd
		}
	}
	if runner := cmd.String("runner"); runner != "" {
		cfg.Runner = runner
	}
	return cfg
}

func resolveRegistry(cmd *cli.Command, cfg environment.Config) (*target.Registry, error) {
	targets := target.Builtin(cfg.RootDir, cfg.Runner)
	if path := cmd.String("targets"); path != "" {
		var err error
		targets, err = target.LoadTOML(path, cfg.RootDir)
		if err != nil {
			return nil, err
		}
	}
	return target.NewRegistry(targets)
}

func buildGatherers(cfg environment.Config) (gatherer.Gatherer, error) {
	sessionUuid := uuid.NewString()
	gaths := gatherer.Multi{termgath.New()}

	if cfg.ProgressNatsURL != "" {
		nc, err := nats.Connect(cfg.ProgressNatsURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		gaths = append(gaths, natsgath.New(nc, sessionUuid, cfg.ProgressNatsSubject))
	}
	if cfg.ProgressSqsURL != "" {
		sg, err := sqsgath.New(sessionUuid, cfg.ProgressSqsURL)
		if err != nil {
			return nil, err
		}
		gaths = append(gaths, sg)
	}
	return gaths, nil
}
