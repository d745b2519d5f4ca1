package natsgath

import (
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/membench/internal/gatherer"
	"github.com/programme-lv/membench/internal/measure"
)

type natsGatherer struct {
	nc          *nats.Conn
	subject     string
	sessionUuid string
}

const (
	MsgTypeSessionStart  = "session_start"
	MsgTypeBuildStart    = "build_start"
	MsgTypeBuildFinish   = "build_finish"
	MsgTypeMeasureStart  = "measure_start"
	MsgTypeMeasureFinish = "measure_finish"
	MsgTypeSessionFinish = "session_finish"
)

type header struct {
	SessionUuid string `json:"session_uuid"`
	MsgType     string `json:"msg_type"`
}

func (s *natsGatherer) header(msgType string) header {
	return header{SessionUuid: s.sessionUuid, MsgType: msgType}
}

type sessionStart struct {
	header
	SystemInfo string `json:"system_info"`
}

func (s *natsGatherer) StartSession(systemInfo string) {
	s.send(sessionStart{
		header:     s.header(MsgTypeSessionStart),
		SystemInfo: gatherer.TrimToRect(systemInfo, gatherer.MaxOutputHeight, gatherer.MaxOutputWidth),
	})
}

type buildStart struct {
	header
	Target string `json:"target"`
}

func (s *natsGatherer) StartBuild(target string) {
	s.send(buildStart{header: s.header(MsgTypeBuildStart), Target: target})
}

type buildFinish struct {
	header
	Target string  `json:"target"`
	Error  *string `json:"error"`
}

func (s *natsGatherer) FinishBuild(target string, errIfAny error) {
	msg := buildFinish{header: s.header(MsgTypeBuildFinish), Target: target}
	if errIfAny != nil {
		trimmed := gatherer.TrimToRect(errIfAny.Error(), gatherer.MaxOutputHeight, gatherer.MaxOutputWidth)
		msg.Error = &trimmed
	}
	s.send(msg)
}

type measureStart struct {
	header
	Target string `json:"target"`
	Depth  int    `json:"depth"`
}

func (s *natsGatherer) StartMeasure(target string, depth int) {
	s.send(measureStart{header: s.header(MsgTypeMeasureStart), Target: target, Depth: depth})
}

type measureFinish struct {
	header
	Target string  `json:"target"`
	Depth  int     `json:"depth"`
	PeakMB float64 `json:"peak_mb"`
}

func (s *natsGatherer) FinishMeasure(res measure.Result) {
	s.send(measureFinish{
		header: s.header(MsgTypeMeasureFinish),
		Target: res.Language,
		Depth:  res.Depth,
		PeakMB: res.PeakMB,
	})
}

type sessionFinish struct {
	header
	Error *string `json:"error"`
}

func (s *natsGatherer) FinishSession(errIfAny error) {
	msg := sessionFinish{header: s.header(MsgTypeSessionFinish)}
	if errIfAny != nil {
		trimmed := gatherer.TrimToRect(errIfAny.Error(), gatherer.MaxOutputHeight, gatherer.MaxOutputWidth)
		msg.Error = &trimmed
	}
	s.send(msg)
}
