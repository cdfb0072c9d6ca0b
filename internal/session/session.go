// Package session owns the live editing state of one open document: the
// current text and version, and the derived semantic snapshot. Each edit
// re-runs the whole pipeline (parse, analyze, index, merge diagnostics)
// on one fixed text and publishes a fresh immutable snapshot.
package session

import (
	"sync"

	"github.com/antimonylang/antimony-ls/internal/analysis"
	"github.com/antimonylang/antimony-ls/internal/ast"
	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/parser"
)

// State is the controller's lifecycle phase. There is no error state:
// malformed text surfaces only as diagnostics inside a Ready snapshot.
type State int

const (
	StateIdle State = iota
	StateParsing
	StateAnalyzing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsing:
		return "parsing"
	case StateAnalyzing:
		return "analyzing"
	}
	return "ready"
}

// Snapshot is the published result for one document version. It is
// immutable: readers never race with the pass building the next version.
type Snapshot struct {
	Text        string
	Version     int
	Tree        *ast.File
	Model       *analysis.SemanticModel
	Index       *analysis.PositionIndex
	Diagnostics []diag.Diagnostic
}

// Session is the edit session controller for one open document. Each
// open file gets its own Session; there is no ambient shared state.
type Session struct {
	mu      sync.RWMutex
	state   State
	version int
	current *Snapshot
}

// New creates an idle session with no document loaded.
func New() *Session {
	return &Session{state: StateIdle}
}

// State returns the controller's current phase.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the latest Ready snapshot, or nil before the first
// load. The returned snapshot is safe to read concurrently with edits.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load starts the session with the document's initial text.
func (s *Session) Load(text string) *Snapshot {
	return s.Apply(text)
}

// Apply replaces the document text, runs the pipeline on it, and
// publishes the result. Version numbers increase monotonically; when
// edits race, only the newest version's snapshot survives publication
// (last write wins), so consumers always see the freshest model for the
// freshest text. Apply never fails: the worst input still yields a Ready
// snapshot whose diagnostics describe what is wrong.
func (s *Session) Apply(text string) *Snapshot {
	s.mu.Lock()
	s.version++
	version := s.version
	s.state = StateParsing
	s.mu.Unlock()

	// The pass runs on its own fixed text snapshot, outside the lock, so
	// a newer edit can start without waiting for a superseded one.
	tree, syntaxDiags := parser.Parse(text)

	s.mu.Lock()
	if version == s.version {
		s.state = StateAnalyzing
	}
	s.mu.Unlock()

	model := analysis.Analyze(tree)
	index := analysis.NewPositionIndex(model)
	snap := &Snapshot{
		Text:        text,
		Version:     version,
		Tree:        tree,
		Model:       model,
		Index:       index,
		Diagnostics: diag.Merge(syntaxDiags, model.Diagnostics),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version < s.version {
		// A newer edit superseded this pass; discard its result without
		// touching the published snapshot.
		return snap
	}
	s.current = snap
	s.state = StateReady
	return snap
}
