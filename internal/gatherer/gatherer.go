package gatherer

import "github.com/programme-lv/membench/internal/measure"

// Gatherer receives progress events from a benchmark session. The
// rendered comparison table is not part of this surface; gatherers see
// progress only.
type Gatherer interface {
	StartSession(systemInfo string)

	StartBuild(target string)
	FinishBuild(target string, errIfAny error)

	StartMeasure(target string, depth int)
	FinishMeasure(res measure.Result)

	FinishSession(errIfAny error)
}

// Multi fans every event out to all gatherers in order.
type Multi []Gatherer

func (m Multi) StartSession(systemInfo string) {
	for _, g := range m {
		g.StartSession(systemInfo)
	}
}

func (m Multi) StartBuild(target string) {
	for _, g := range m {
		g.StartBuild(target)
	}
}

func (m Multi) FinishBuild(target string, errIfAny error) {
	for _, g := range m {
		g.FinishBuild(target, errIfAny)
	}
}

func (m Multi) StartMeasure(target string, depth int) {
	for _, g := range m {
		g.StartMeasure(target, depth)
	}
}

func (m Multi) FinishMeasure(res measure.Result) {
	for _, g := range m {
		g.FinishMeasure(res)
	}
}

func (m Multi) FinishSession(errIfAny error) {
	for _, g := range m {
		g.FinishSession(errIfAny)
	}
}
