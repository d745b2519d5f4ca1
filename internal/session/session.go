package session

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/programme-lv/membench/internal/gatherer"
	"github.com/programme-lv/membench/internal/measure"
	"github.com/programme-lv/membench/internal/target"
)

// Preparer brings one target's runnable artifact into existence.
type Preparer interface {
	Prepare(ctx context.Context, tgt target.Target) error
}

// Measurer runs one (target, depth) measurement round trip.
type Measurer interface {
	Measure(ctx context.Context, tgt target.Target, depth int) (measure.Result, error)
}

// Session drives one complete benchmark run: every target is built
// first, then every (depth, target) pair is measured strictly one at a
// time. Measurements never overlap; concurrent memory-bound workloads
// on shared hardware would contaminate each other's peak readings.
type Session struct {
	log    *slog.Logger
	reg    *target.Registry
	coord  Preparer
	client Measurer
	gath   gatherer.Gatherer
}

func New(log *slog.Logger, reg *target.Registry, coord Preparer, client Measurer, gath gatherer.Gatherer) *Session {
	return &Session{
		log:    log,
		reg:    reg,
		coord:  coord,
		client: client,
		gath:   gath,
	}
}

// Run executes the whole session and returns the fully materialized
// result list: outer iteration over depths in the order given
// (duplicates permitted), inner over targets in declaration order.
// Consumers may rely on that ordering. The first build or measurement
// error aborts the session; no partial results escape.
func (s *Session) Run(ctx context.Context, depths []int) ([]measure.Result, error) {
	s.gath.StartSession(systemInfo())

	targets := s.reg.Targets()
	for _, tgt := range targets {
		s.gath.StartBuild(tgt.Name)
		err := s.coord.Prepare(ctx, tgt)
		s.gath.FinishBuild(tgt.Name, err)
		if err != nil {
			errMsg := fmt.Errorf("failed to build target %s: %w", tgt.Name, err)
			s.gath.FinishSession(errMsg)
			return nil, errMsg
		}
	}

	results := make([]measure.Result, 0, len(depths)*len(targets))
	for _, depth := range depths {
		for _, tgt := range targets {
			s.gath.StartMeasure(tgt.Name, depth)
			res, err := s.client.Measure(ctx, tgt, depth)
			if err != nil {
				s.gath.FinishSession(err)
				return nil, err
			}
			s.gath.FinishMeasure(res)
			results = append(results, res)
		}
	}

	s.gath.FinishSession(nil)
	return results, nil
}

func systemInfo() string {
	return fmt.Sprintf("%s/%s, %d logical cpus", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
}
