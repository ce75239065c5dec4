package graph

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEnsureConstraints(t *testing.T) {
	gs, sess := newFakeStore()
	applied := gs.EnsureConstraints(context.Background())
	if applied != 4 {
		t.Fatalf("expected 4 constraints applied, got %d", applied)
	}
	if len(sess.queries) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(sess.queries))
	}
	for _, q := range sess.queries {
		if !strings.Contains(q, "IF NOT EXISTS") {
			t.Errorf("constraint must be create-if-not-exists: %q", q)
		}
	}
	for _, label := range []string{":Case", ":Suspect", ":Officer", ":CrimeType"} {
		found := false
		for _, q := range sess.queries {
			if strings.Contains(q, label) {
				found = true
			}
		}
		if !found {
			t.Errorf("no constraint declared for %s", label)
		}
	}
}

func TestEnsureConstraintsIdempotent(t *testing.T) {
	gs, sess := newFakeStore()
	if gs.EnsureConstraints(context.Background()) != 4 {
		t.Fatal("first pass should apply all constraints")
	}
	if gs.EnsureConstraints(context.Background()) != 4 {
		t.Fatal("repeat pass must succeed identically")
	}
	if len(sess.queries) != 8 {
		t.Fatalf("expected 8 statements over two passes, got %d", len(sess.queries))
	}
}

func TestEnsureConstraintsDegradedNotFatal(t *testing.T) {
	gs, sess := newFakeStore()
	sess.runErr = errors.New("insufficient privileges")
	// Must not panic or abort; zero constraints land, startup continues.
	if applied := gs.EnsureConstraints(context.Background()); applied != 0 {
		t.Fatalf("expected 0 applied, got %d", applied)
	}
	if len(sess.queries) != 4 {
		t.Fatalf("every constraint should still be attempted, got %d", len(sess.queries))
	}
}
