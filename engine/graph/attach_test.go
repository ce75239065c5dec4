package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// fakeFiles records saves and can be told to fail.
type fakeFiles struct {
	saves   []string
	saveErr error
}

func (f *fakeFiles) Save(name string, _ []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saves = append(f.saves, name)
	return "case_images/" + name, nil
}

func newFakeAttachments() (*Attachments, *fakeSession, *fakeFiles) {
	gs, sess := newFakeStore()
	files := &fakeFiles{}
	return NewAttachments(gs, files), sess, files
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"evidence1.png", "evidence1.png"},
		{"../../etc/passwd.png", "etc_passwd.png"},
		{"..\\..\\windows\\cmd.png", "windows_cmd.png"},
		{"crime scene (2).jpg", "crime_scene_2_.jpg"},
		{".hidden", "hidden"},
		{"....", ""},
		{"", ""},
		{"a/b/c.png", "a_b_c.png"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseImageSlot(t *testing.T) {
	for name, want := range map[string]ImageSlot{
		"suspectPhoto":    SlotSuspectPhoto,
		"evidencePhoto":   SlotEvidencePhoto,
		"crimeScenePhoto": SlotCrimeScenePhoto,
	} {
		got, err := ParseImageSlot(name)
		if err != nil || got != want {
			t.Errorf("ParseImageSlot(%q) = %v, %v", name, got, err)
		}
		if got.String() != name {
			t.Errorf("slot %v renders as %q, want %q", got, got.String(), name)
		}
	}
	for _, bad := range []string{"", "caseTitle", "SuspectPhoto", "photo"} {
		if _, err := ParseImageSlot(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseImageSlot(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestAttachImage(t *testing.T) {
	att, sess, files := newFakeAttachments()
	sess.results = []*fakeResult{
		{records: []*neo4j.Record{idRecord("abc123")}}, // existence check
		{records: []*neo4j.Record{idRecord("abc123")}}, // SET
	}

	path, err := att.AttachImage(context.Background(), "abc123", SlotEvidencePhoto, []byte("\x89PNG..."), "evidence1.png")
	if err != nil {
		t.Fatalf("AttachImage: %v", err)
	}
	if path != "case_images/abc123_evidence1.png" {
		t.Fatalf("unexpected stored path %q", path)
	}
	if len(files.saves) != 1 || files.saves[0] != "abc123_evidence1.png" {
		t.Fatalf("unexpected saves %v", files.saves)
	}
	if len(sess.queries) != 2 {
		t.Fatalf("expected existence check + update, got %d statements", len(sess.queries))
	}
	if !strings.Contains(sess.queries[1], "SET c.evidencePhoto = $path") {
		t.Fatalf("update must target the slot's fixed statement, got %q", sess.queries[1])
	}
	if sess.writes != 1 {
		t.Fatalf("only the property update runs in a write transaction, got %d", sess.writes)
	}
	if sess.params[1]["path"] != path {
		t.Fatal("stored path must be a bound parameter")
	}
}

func TestAttachImagePerSlotStatements(t *testing.T) {
	for slot, prop := range map[ImageSlot]string{
		SlotSuspectPhoto:    "suspectPhoto",
		SlotEvidencePhoto:   "evidencePhoto",
		SlotCrimeScenePhoto: "crimeScenePhoto",
	} {
		cypher, ok := setPhotoCypher(slot)
		if !ok {
			t.Fatalf("no statement for slot %v", slot)
		}
		if !strings.Contains(cypher, "SET c."+prop+" = $path") {
			t.Errorf("slot %v statement sets wrong property: %q", slot, cypher)
		}
	}
	if _, ok := setPhotoCypher(ImageSlot(99)); ok {
		t.Fatal("out-of-range slot must have no statement")
	}
}

func TestAttachImageBadSlot(t *testing.T) {
	att, sess, files := newFakeAttachments()
	_, err := att.AttachImage(context.Background(), "abc123", ImageSlot(99), []byte("x"), "a.png")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(sess.queries) != 0 || len(files.saves) != 0 {
		t.Fatal("a bad slot must touch neither the store nor the filesystem")
	}
}

func TestAttachImageEmptyInput(t *testing.T) {
	att, sess, files := newFakeAttachments()
	if _, err := att.AttachImage(context.Background(), "", SlotSuspectPhoto, []byte("x"), "a.png"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty case id, got %v", err)
	}
	if _, err := att.AttachImage(context.Background(), "abc123", SlotSuspectPhoto, nil, "a.png"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty image, got %v", err)
	}
	if _, err := att.AttachImage(context.Background(), "abc123", SlotSuspectPhoto, []byte("x"), "...."); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unusable filename, got %v", err)
	}
	if len(sess.queries) != 0 || len(files.saves) != 0 {
		t.Fatal("invalid input must be rejected before any side effect")
	}
}

func TestAttachImageCaseNotFound(t *testing.T) {
	att, _, files := newFakeAttachments()
	_, err := att.AttachImage(context.Background(), "missing", SlotSuspectPhoto, []byte("x"), "a.png")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(files.saves) != 0 {
		t.Fatal("a missing case must not leave a file behind")
	}
}

func TestAttachImageFilesystemFailure(t *testing.T) {
	att, sess, files := newFakeAttachments()
	sess.results = []*fakeResult{{records: []*neo4j.Record{idRecord("abc123")}}}
	files.saveErr = errors.New("disk full")

	_, err := att.AttachImage(context.Background(), "abc123", SlotSuspectPhoto, []byte("x"), "a.png")
	if !errors.Is(err, ErrFilesystem) {
		t.Fatalf("expected ErrFilesystem, got %v", err)
	}
	// Only the existence check ran; the photo property was never set.
	if len(sess.queries) != 1 {
		t.Fatalf("a failed file write must not mutate the store, ran %d statements", len(sess.queries))
	}
}
