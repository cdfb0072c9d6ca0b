package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antimonylang/antimony-ls/internal/analysis"
	"github.com/antimonylang/antimony-ls/internal/diag"
)

func TestNewSessionIsIdle(t *testing.T) {
	s := New()
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Snapshot())
}

func TestLoadPublishesReadySnapshot(t *testing.T) {
	s := New()
	snap := s.Load("species A\n")

	require.NotNil(t, snap)
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, "species A\n", snap.Text)
	assert.Empty(t, snap.Diagnostics)

	_, ok := snap.Model.Lookup("A")
	assert.True(t, ok)
	assert.Same(t, snap, s.Snapshot())
}

func TestApplyBumpsVersion(t *testing.T) {
	s := New()
	s.Load("species A\n")
	snap := s.Apply("species A\nspecies B\n")

	assert.Equal(t, 2, snap.Version)
	assert.Same(t, snap, s.Snapshot())

	_, ok := snap.Model.Lookup("B")
	assert.True(t, ok)
}

func TestBrokenInputStillReachesReady(t *testing.T) {
	s := New()
	snap := s.Load("model m\nJ: A -> ; @@@\n")

	require.NotNil(t, snap)
	assert.Equal(t, StateReady, s.State())
	assert.NotEmpty(t, snap.Diagnostics, "broken text surfaces as diagnostics")
	assert.NotNil(t, snap.Tree)
	assert.NotNil(t, snap.Index)
}

func TestSnapshotMergesSyntaxAndSemanticDiagnostics(t *testing.T) {
	s := New()
	snap := s.Load("species A\nspecies A\nJ: @@@\n")

	var codes []string
	for _, d := range snap.Diagnostics {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, diag.CodeDuplicateDecl)
	assert.Contains(t, codes, diag.CodeSyntaxError)
}

func TestOldSnapshotSurvivesNewEdits(t *testing.T) {
	s := New()
	first := s.Load("species A\n")
	s.Apply("species B\n")

	// The superseded snapshot is immutable and still fully usable.
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, "species A\n", first.Text)
	_, ok := first.Model.Lookup("A")
	assert.True(t, ok)
	_, ok = first.Model.Lookup("B")
	assert.False(t, ok)
}

func TestConcurrentEditsLastWriteWins(t *testing.T) {
	s := New()
	s.Load("species seed\n")

	const edits = 32
	var wg sync.WaitGroup
	for i := 0; i < edits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Apply(fmt.Sprintf("species sp%d\n", i))
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, edits+1, snap.Version, "the newest version is published")

	// The published model was built from the published text, never from a
	// stale racing edit.
	names := snap.Model.SymbolNamesByKind(analysis.KindSpecies)
	require.Len(t, names, 1)
	assert.Contains(t, snap.Text, names[0])
}

func TestApplyIsDeterministic(t *testing.T) {
	text := "species A\nJ: A -> Q; k*A\nA has identity \"urn:x\"\n"
	first := New().Load(text)
	second := New().Load(text)

	assert.Equal(t, first.Diagnostics, second.Diagnostics)
	assert.Equal(t, first.Model.Occurrences, second.Model.Occurrences)
	assert.Equal(t, first.Model.Annotations, second.Model.Annotations)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "parsing", StateParsing.String())
	assert.Equal(t, "analyzing", StateAnalyzing.String())
	assert.Equal(t, "ready", StateReady.String())
}
