package passage

import (
	"context"
	"testing"

	"github.com/verte-zerg/neontype/internal/model"
)

func TestSequencerDiscardsStaleResults(t *testing.T) {
	var seq Sequencer
	first, firstCtx := seq.Next(context.Background())
	second, _ := seq.Next(context.Background())

	if firstCtx.Err() == nil {
		t.Fatalf("expected superseded request to be cancelled")
	}
	if seq.Accept(first) {
		t.Fatalf("expected stale result to be rejected")
	}
	if !seq.Accept(second) {
		t.Fatalf("expected latest result to be accepted")
	}
	if seq.Latest() != second {
		t.Fatalf("expected latest %d, got %d", second, seq.Latest())
	}
}

func TestSequencerCancel(t *testing.T) {
	var seq Sequencer
	_, ctx := seq.Next(context.Background())
	seq.Cancel()
	if ctx.Err() == nil {
		t.Fatalf("expected cancelled context")
	}
	seq.Cancel()
}

func TestFetchCommandOutOfOrder(t *testing.T) {
	var seq Sequencer
	cfg := model.Config{Mode: model.WordLimited, WordCount: 3, Topic: model.TopicGeneral}
	src := NewSource(&fakeGenerator{text: "alpha beta gamma delta"})

	firstSeq, firstCtx := seq.Next(context.Background())
	firstCmd := Fetch(firstCtx, src, firstSeq, cfg)
	secondSeq, secondCtx := seq.Next(context.Background())
	secondCmd := Fetch(secondCtx, src, secondSeq, cfg)

	// The newer request resolves first.
	second, ok := secondCmd().(Msg)
	if !ok {
		t.Fatalf("expected passage message")
	}
	first, ok := firstCmd().(Msg)
	if !ok {
		t.Fatalf("expected passage message")
	}

	if !seq.Accept(second.Seq) {
		t.Fatalf("expected newest passage to apply")
	}
	if second.Text != "alpha beta gamma" {
		t.Fatalf("expected truncated passage, got %q", second.Text)
	}
	if seq.Accept(first.Seq) {
		t.Fatalf("expected older passage to be discarded")
	}
	if first.Text != Prepare(Fallback(model.TopicGeneral), cfg) {
		t.Fatalf("expected cancelled request to fall back, got %q", first.Text)
	}
}
