package sqsgath

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/membench/internal/gatherer"
	"github.com/programme-lv/membench/internal/measure"
)

type sqsGatherer struct {
	sqsClient   *sqs.Client
	queueUrl    string
	sessionUuid string
}

// New creates an SQS gatherer that sends session progress events to
// the given queue, using the default AWS credential chain.
func New(sessionUuid string, queueUrl string) (*sqsGatherer, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &sqsGatherer{
		sqsClient:   sqs.NewFromConfig(cfg),
		queueUrl:    queueUrl,
		sessionUuid: sessionUuid,
	}, nil
}

const (
	MsgTypeSessionStart  = "session_start"
	MsgTypeBuildStart    = "build_start"
	MsgTypeBuildFinish   = "build_finish"
	MsgTypeMeasureStart  = "measure_start"
	MsgTypeMeasureFinish = "measure_finish"
	MsgTypeSessionFinish = "session_finish"
)

type Header struct {
	SessionUuid string `json:"session_uuid"`
	MsgType     string `json:"msg_type"`
}

func (s *sqsGatherer) header(msgType string) Header {
	return Header{SessionUuid: s.sessionUuid, MsgType: msgType}
}

type SessionStart struct {
	Header
	SystemInfo string `json:"system_info"`
}

func (s *sqsGatherer) StartSession(systemInfo string) {
	s.send(SessionStart{
		Header:     s.header(MsgTypeSessionStart),
		SystemInfo: gatherer.TrimToRect(systemInfo, gatherer.MaxOutputHeight, gatherer.MaxOutputWidth),
	})
}

type BuildStart struct {
	Header
	Target string `json:"target"`
}

func (s *sqsGatherer) StartBuild(target string) {
	s.send(BuildStart{Header: s.header(MsgTypeBuildStart), Target: target})
}

type BuildFinish struct {
	Header
	Target string  `json:"target"`
	Error  *string `json:"error"`
}

func (s *sqsGatherer) FinishBuild(target string, errIfAny error) {
	msg := BuildFinish{Header: s.header(MsgTypeBuildFinish), Target: target}
	if errIfAny != nil {
		trimmed := gatherer.TrimToRect(errIfAny.Error(), gatherer.MaxOutputHeight, gatherer.MaxOutputWidth)
		msg.Error = &trimmed
	}
	s.send(msg)
}

type MeasureStart struct {
	Header
	Target string `json:"target"`
	Depth  int    `json:"depth"`
}

func (s *sqsGatherer) StartMeasure(target string, depth int) {
	s.send(MeasureStart{Header: s.header(MsgTypeMeasureStart), Target: target, Depth: depth})
}

type MeasureFinish struct {
	Header
	Target string  `json:"target"`
	Depth  int     `json:"depth"`
	PeakMB float64 `json:"peak_mb"`
}

func (s *sqsGatherer) FinishMeasure(res measure.Result) {
	s.send(MeasureFinish{
		Header: s.header(MsgTypeMeasureFinish),
		Target: res.Language,
		Depth:  res.Depth,
		PeakMB: res.PeakMB,
	})
}

type SessionFinish struct {
	Header
	Error *string `json:"error"`
}

func (s *sqsGatherer) FinishSession(errIfAny error) {
	msg := SessionFinish{Header: s.header(MsgTypeSessionFinish)}
	if errIfAny != nil {
		trimmed := gatherer.TrimToRect(errIfAny.Error(), gatherer.MaxOutputHeight, gatherer.MaxOutputWidth)
		msg.Error = &trimmed
	}
	s.send(msg)
}
