// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the state of one interpretation session: the curve
// table with its metadata, the editable parameters, per-stage completion flags
// and the status message. Every mutation is announced on a change bus keyed by
// field name so renderers redraw only what changed.
package session

import (
	"context"
	"sync"
	"time"

	"wellplot/cli/internal/curves"

	"github.com/google/uuid"
)

// Publisher receives change events. Publish may block until subscribers have
// handled the event.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Event announces that the listed fields changed.
type Event struct {
	SessionID string   `json:"session_id"`
	Stage     Stage    `json:"stage,omitempty"`
	Fields    []string `json:"fields"`
}

// Entry is one status message in the session history.
type Entry struct {
	Stage   Stage     `json:"stage,omitempty"`
	OK      bool      `json:"ok"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Snapshot is a consistent read-only view of the session.
type Snapshot struct {
	ID             string
	Table          *curves.Table
	Meta           curves.Metadata
	Params         Params
	Flags          map[Stage]bool
	Message        string
	History        []Entry
	Interpretation string
}

// Done reports the completion flag of stage s.
func (s Snapshot) Done(st Stage) bool { return s.Flags[st] }

// Update is the outcome of a successful stage call.
type Update struct {
	Stage   Stage
	Message string
	// Table and Meta replace the current ones when Table is non-nil.
	Table *curves.Table
	Meta  curves.Metadata
	// Options replaces the stage's dropdown list when non-nil.
	Options curves.Options
	// Interpretation is the passthrough image, set by the interpretation stage.
	Interpretation string
}

// Session is the state of one interpretation session.
type Session struct {
	id  string
	pub Publisher
	now func() time.Time

	mu             sync.RWMutex
	table          *curves.Table
	meta           curves.Metadata
	params         Params
	flags          map[Stage]bool
	message        string
	history        []Entry
	interpretation string
}

// New creates a session with default parameters. pub may be nil.
func New(pub Publisher) *Session {
	return &Session{
		id:     uuid.NewString(),
		pub:    pub,
		now:    time.Now,
		params: DefaultParams(),
		flags:  make(map[Stage]bool),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Snapshot returns the current state. The table is immutable and shared; the
// rest is copied.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flags := make(map[Stage]bool, len(s.flags))
	for k, v := range s.flags {
		flags[k] = v
	}
	return Snapshot{
		ID:             s.id,
		Table:          s.table,
		Meta:           s.meta,
		Params:         s.params.Clone(),
		Flags:          flags,
		Message:        s.message,
		History:        append([]Entry(nil), s.history...),
		Interpretation: s.interpretation,
	}
}

// Done reports whether stage st has completed.
func (s *Session) Done(st Stage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[st]
}

// Params returns a copy of the current parameters.
func (s *Session) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.Clone()
}

// Message returns the latest status message.
func (s *Session) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// SetParam assigns a parameter by wire name and announces the change.
func (s *Session) SetParam(ctx context.Context, name, value string) error {
	s.mu.Lock()
	next := s.params.Clone()
	if err := next.Set(name, value); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.params = next
	s.mu.Unlock()

	return s.publish(ctx, "", ParamField(name))
}

// ReplaceParams swaps the whole parameter set after validating it. Dropdown
// options reported by the service are kept.
func (s *Session) ReplaceParams(ctx context.Context, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	p = p.Clone()
	p.Plot.VCLOptions = s.params.Plot.VCLOptions
	p.Plot.PHIOptions = s.params.Plot.PHIOptions
	p.Plot.SWOptions = s.params.Plot.SWOptions
	s.params = p
	s.mu.Unlock()

	fields := make([]string, 0, len(ParamNames()))
	for _, n := range ParamNames() {
		fields = append(fields, ParamField(n))
	}
	return s.publish(ctx, "", fields...)
}

// Apply records a successful stage: table and metadata are swapped as a unit,
// options merged, the artifact stored and the completion flag set.
func (s *Session) Apply(ctx context.Context, u Update) error {
	fields := []string{FieldMessage}

	s.mu.Lock()
	if u.Table != nil {
		s.table = u.Table
		s.meta = u.Meta
		fields = append(fields, FieldTable, FieldMetadata)
	}
	if u.Options != nil {
		switch u.Stage {
		case StageVCL:
			s.params.Plot.VCLOptions = u.Options
		case StagePHI:
			s.params.Plot.PHIOptions = u.Options
		case StageSW:
			s.params.Plot.SWOptions = u.Options
		}
		fields = append(fields, OptionsField(u.Stage))
	}
	if u.Stage == StageInterpretation {
		s.interpretation = u.Interpretation
		fields = append(fields, FieldInterpretation)
	}
	s.flags[u.Stage] = true
	fields = append(fields, FlagField(u.Stage))
	s.record(u.Stage, true, u.Message)
	s.mu.Unlock()

	return s.publish(ctx, u.Stage, fields...)
}

// Fail records a failed stage message without touching any other state.
func (s *Session) Fail(ctx context.Context, st Stage, message string) error {
	s.mu.Lock()
	s.record(st, false, message)
	s.mu.Unlock()
	return s.publish(ctx, st, FieldMessage)
}

// Note records an informational message not tied to a stage outcome.
func (s *Session) Note(ctx context.Context, message string) error {
	s.mu.Lock()
	s.record("", true, message)
	s.mu.Unlock()
	return s.publish(ctx, "", FieldMessage)
}

// ResetFlags clears every completion flag; used when a new dataset is loaded.
func (s *Session) ResetFlags(ctx context.Context) error {
	s.mu.Lock()
	var fields []string
	for st, done := range s.flags {
		if done {
			fields = append(fields, FlagField(st))
		}
	}
	s.flags = make(map[Stage]bool)
	s.mu.Unlock()

	if len(fields) == 0 {
		return nil
	}
	return s.publish(ctx, "", fields...)
}

// record must be called with mu held.
func (s *Session) record(st Stage, ok bool, message string) {
	s.message = message
	s.history = append(s.history, Entry{Stage: st, OK: ok, Message: message, At: s.now()})
}

func (s *Session) publish(ctx context.Context, st Stage, fields ...string) error {
	if s.pub == nil {
		return nil
	}
	return s.pub.Publish(ctx, Event{SessionID: s.id, Stage: st, Fields: fields})
}
