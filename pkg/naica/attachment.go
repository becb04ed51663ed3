package naica

import "strings"

// AttachmentType classifies an attachment.
type AttachmentType int

const (
	// AttachmentSnapshot is a captured image of the system under test.
	AttachmentSnapshot AttachmentType = iota
)

// String returns a human-readable label for the attachment type.
func (t AttachmentType) String() string {
	switch t {
	case AttachmentSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// Attachment is an opaque record stored on a step. Locator is never
// interpreted by the engine; exporters decide what it means (for snapshots
// it is a file path).
type Attachment struct {
	Type    AttachmentType
	Name    string
	Locator string
}

// CaseFileName makes a case id usable as a single path element. Attachment
// directories and report pages of a case are both named with it.
func CaseFileName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id)
	if name == "" || name == "." || name == ".." {
		return "case"
	}
	return name
}
