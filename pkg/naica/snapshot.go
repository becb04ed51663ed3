package naica

import (
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotExtension is the file extension of captured snapshots.
const SnapshotExtension = "png"

// Snapshot is a Sequence that captures an attachment once its results are
// recorded. When the sequence fails the attachment is named "<name>-FAILED".
type Snapshot struct {
	name     string
	sequence *Sequence
	capturer Capturer
}

// NewSnapshot builds a Snapshot. The capturer may be nil, in which case the
// run context driver is used when it implements Capturer.
func NewSnapshot(name string, cfg SequenceConfig, capturer Capturer) (*Snapshot, error) {
	if name == "" {
		return nil, ErrSnapshotName
	}
	seq, err := NewSequence(cfg)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return &Snapshot{name: name, sequence: seq, capturer: capturer}, nil
}

// MustSnapshot is like NewSnapshot but panics on a configuration error.
func MustSnapshot(name string, cfg SequenceConfig, capturer Capturer) *Snapshot {
	s, err := NewSnapshot(name, cfg, capturer)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the snapshot name.
func (s *Snapshot) Name() string {
	return s.name
}

// Execute implements Operation. Capture problems are logged and recorded as
// result text; they never change the sequence result.
func (s *Snapshot) Execute(rc *RunContext) bool {
	ok := s.sequence.Execute(rc)
	s.capture(rc, ok)
	return ok
}

func (s *Snapshot) capture(rc *RunContext, succeeded bool) {
	tc := rc.CurrentCase()
	if tc == nil {
		return
	}

	capturer := s.capturer
	if capturer == nil {
		c, ok := rc.Driver().(Capturer)
		if !ok {
			rc.Logger().Warn("No capturer available for snapshot", "snapshot", s.name, "case", tc.ID())
			return
		}
		capturer = c
	}

	name := s.name
	if !succeeded {
		name += "-FAILED"
	}
	locator := SnapshotLocator(rc.Properties().AttachmentDirectory(), tc)

	if err := os.MkdirAll(filepath.Dir(locator), 0o755); err != nil {
		s.captureFailed(rc, name, err)
		return
	}
	if err := capturer.Capture(rc, locator); err != nil {
		s.captureFailed(rc, name, err)
		return
	}

	rc.AddAttachment(Attachment{Type: AttachmentSnapshot, Name: name, Locator: locator})
}

func (s *Snapshot) captureFailed(rc *RunContext, name string, err error) {
	rc.Logger().Error("Could not capture snapshot", "snapshot", name, "error", err)
	rc.AddResult(fmt.Sprintf("could not capture snapshot %s: %v", name, err))
}

// SnapshotLocator returns where the next attachment of the current step of
// tc is stored: <dir>/<case>/<case>_<step>_<attachment>.png with both
// numbers 1-based and zero padded to two digits. <case> is the id passed
// through CaseFileName.
func SnapshotLocator(dir string, tc *CaseRecord) string {
	attachmentNo := 1
	if step := tc.CurrentStep(); step != nil {
		attachmentNo = len(step.Attachments()) + 1
	}
	stepNo := tc.CurrentStepNumber()
	if stepNo == 0 {
		stepNo = 1
	}
	name := CaseFileName(tc.ID())
	file := fmt.Sprintf("%s_%02d_%02d.%s", name, stepNo, attachmentNo, SnapshotExtension)
	return filepath.Join(dir, name, file)
}
