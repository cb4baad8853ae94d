package control

import (
	"context"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// Pipelines run standalones in place when the token reaches them.
var pipelineInfo = actor.HandlerInfo{Mode: actor.Sequential, CanContainStandalones: true}

// Sequence pushes each incoming token through its children. It is a sink:
// whatever leaves the last child is dropped.
type Sequence struct {
	actor.Handler
	input *domain.Token
}

func NewSequence(name string, actors ...actor.Actor) *Sequence {
	s := &Sequence{}
	s.Init(s, name)
	s.Add(actors...)
	return s
}

func (s *Sequence) Info() actor.HandlerInfo { return pipelineInfo }

func (s *Sequence) Input(token *domain.Token) { s.input = token }

func (s *Sequence) Execute(ctx context.Context) error {
	token := s.input
	s.input = nil
	if token == nil {
		return nil
	}
	return push(ctx, s, s.Actors(), token, nil)
}

// SubProcess pushes each incoming token through its children and outputs
// whatever leaves the last child.
type SubProcess struct {
	actor.Handler
	input  *domain.Token
	output actor.Queue
}

func NewSubProcess(name string, actors ...actor.Actor) *SubProcess {
	s := &SubProcess{}
	s.Init(s, name)
	s.Add(actors...)
	return s
}

func (s *SubProcess) Info() actor.HandlerInfo { return pipelineInfo }

func (s *SubProcess) Input(token *domain.Token) { s.input = token }

func (s *SubProcess) SetUp(ctx context.Context) error {
	s.output.Clear()
	return s.Handler.SetUp(ctx)
}

func (s *SubProcess) Execute(ctx context.Context) error {
	token := s.input
	s.input = nil
	if token == nil {
		return nil
	}
	return push(ctx, s, s.Actors(), token, queueEmitter(&s.output))
}

func (s *SubProcess) HasPendingOutput() bool { return s.output.Len() > 0 }

func (s *SubProcess) Output() *domain.Token { return s.output.Pop() }

// SequenceSource starts with a source and outputs whatever leaves its last child.
type SequenceSource struct {
	actor.Handler
	output actor.Queue
}

func NewSequenceSource(name string, actors ...actor.Actor) *SequenceSource {
	s := &SequenceSource{}
	s.Init(s, name)
	s.Add(actors...)
	return s
}

func (s *SequenceSource) Info() actor.HandlerInfo {
	return actor.HandlerInfo{Mode: actor.Sequential, CanContainStandalones: true, CanContainSource: true}
}

func (s *SequenceSource) SetUp(ctx context.Context) error {
	s.output.Clear()
	return s.Handler.SetUp(ctx)
}

func (s *SequenceSource) Execute(ctx context.Context) error {
	return runSubFlow(ctx, s, s.Actors(), queueEmitter(&s.output))
}

func (s *SequenceSource) HasPendingOutput() bool { return s.output.Len() > 0 }

func (s *SequenceSource) Output() *domain.Token { return s.output.Pop() }

// Standalones executes a list of standalone actors in order.
type Standalones struct {
	actor.Handler
}

func NewStandalones(name string, actors ...actor.Actor) *Standalones {
	s := &Standalones{}
	s.Init(s, name)
	s.Add(actors...)
	return s
}

func (s *Standalones) Info() actor.HandlerInfo {
	return actor.HandlerInfo{
		Mode:                  actor.Sequential,
		CanContainStandalones: true,
		Restrictions:          []actor.Capability{actor.CapStandalone},
	}
}

func (s *Standalones) Execute(ctx context.Context) error {
	return runSubFlow(ctx, s, s.Actors(), nil)
}
