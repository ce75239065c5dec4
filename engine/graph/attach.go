package graph

import (
	"context"
	"fmt"
	"strings"
)

// ImageSlot is one of the three fixed image-attachment categories of a case.
type ImageSlot int

const (
	SlotSuspectPhoto ImageSlot = iota
	SlotEvidencePhoto
	SlotCrimeScenePhoto
)

// String returns the Case property name the slot maps to.
func (s ImageSlot) String() string {
	switch s {
	case SlotSuspectPhoto:
		return "suspectPhoto"
	case SlotEvidencePhoto:
		return "evidencePhoto"
	case SlotCrimeScenePhoto:
		return "crimeScenePhoto"
	}
	return "unknown"
}

// ParseImageSlot maps an external slot name onto the closed enumeration.
// Anything outside the allow-list is rejected before any side effect.
func ParseImageSlot(s string) (ImageSlot, error) {
	switch s {
	case "suspectPhoto":
		return SlotSuspectPhoto, nil
	case "evidencePhoto":
		return SlotEvidencePhoto, nil
	case "crimeScenePhoto":
		return SlotCrimeScenePhoto, nil
	}
	return 0, fmt.Errorf("%w: unknown image slot %q", ErrInvalidInput, s)
}

// One pre-authored statement per slot. The settable property is chosen by
// this switch, never formatted from external text.
func setPhotoCypher(slot ImageSlot) (string, bool) {
	switch slot {
	case SlotSuspectPhoto:
		return `MATCH (c:Case {id: $id}) SET c.suspectPhoto = $path RETURN c.id AS id`, true
	case SlotEvidencePhoto:
		return `MATCH (c:Case {id: $id}) SET c.evidencePhoto = $path RETURN c.id AS id`, true
	case SlotCrimeScenePhoto:
		return `MATCH (c:Case {id: $id}) SET c.crimeScenePhoto = $path RETURN c.id AS id`, true
	}
	return "", false
}

// FileStore persists attachment bytes under the upload root and returns the
// relative stored path to record on the case.
type FileStore interface {
	Save(name string, data []byte) (string, error)
}

// Attachments associates evidentiary images with existing cases.
type Attachments struct {
	graph *GraphStore
	files FileStore
}

// NewAttachments creates an attachment manager over a graph store.
func NewAttachments(gs *GraphStore, files FileStore) *Attachments {
	return &Attachments{graph: gs, files: files}
}

// AttachImage writes the image to the upload root and records its path on
// the slot's property of the case. The file is written before the store is
// touched, so a failed write leaves no dangling reference; a failed store
// update leaves an orphan file on disk, same as re-attaching a slot, which
// overwrites the recorded path and keeps the previous file.
func (a *Attachments) AttachImage(ctx context.Context, caseID string, slot ImageSlot, data []byte, filename string) (string, error) {
	cypher, ok := setPhotoCypher(slot)
	if !ok {
		return "", fmt.Errorf("%w: unknown image slot", ErrInvalidInput)
	}
	if caseID == "" {
		return "", fmt.Errorf("%w: empty case id", ErrInvalidInput)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("%w: unusable filename %q", ErrInvalidInput, filename)
	}

	// Cases are never deleted, so an existence check up front cannot go
	// stale; it keeps a bad case id from leaving an orphan file behind.
	records, err := a.graph.run(ctx, `MATCH (c:Case {id: $id}) RETURN c.id AS id`, map[string]any{"id": caseID})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: case %s", ErrNotFound, caseID)
	}

	storedPath, err := a.files.Save(caseID+"_"+name, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	records, err = a.graph.write(ctx, cypher, map[string]any{"id": caseID, "path": storedPath})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: case %s", ErrNotFound, caseID)
	}
	return storedPath, nil
}

// SanitizeFilename strips path traversal and filesystem-unsafe characters
// from an uploaded filename. Path segments of "." and ".." are dropped,
// remaining segments are joined with underscores, and anything outside
// [A-Za-z0-9_.-] becomes an underscore. The result never starts with a dot.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	var parts []string
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	joined := strings.Join(parts, "_")

	b := make([]byte, 0, len(joined))
	for i := 0; i < len(joined); i++ {
		c := joined[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '-', c == '_':
			b = append(b, c)
		default:
			b = append(b, '_')
		}
	}
	out := string(b)
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	return strings.TrimLeft(out, ".")
}
