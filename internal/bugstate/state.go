// Package bugstate maps Octane defect phases onto open/closed semantics and
// performs the reopen transition.
package bugstate

import (
	"context"
	"fmt"

	"github.com/octanebridge/octane/internal/octane"
)

// Status is the coarse classification of a phase.
type Status int

const (
	Unclassified Status = iota
	Open
	Closed
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unclassified"
	}
}

// MarshalText lets Status render as its name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	openPhases = map[string]bool{
		octane.PhaseDefectNew:      true,
		octane.PhaseDefectOpened:   true,
		octane.PhaseDefectDeferred: true,
	}
	closedPhases = map[string]bool{
		octane.PhaseDefectFixed:        true,
		octane.PhaseDefectProposeClose: true,
		octane.PhaseDefectClosed:       true,
		octane.PhaseDefectRejected:     true,
	}
	// reopenTargets maps a closed phase to the phase a reopen moves it to.
	reopenTargets = map[string]string{
		octane.PhaseDefectFixed: octane.PhaseDefectOpened,
	}
)

// Classification describes a phase. ReopenTarget is only set when
// CanReopen is true.
type Classification struct {
	Phase        string `json:"phase" yaml:"phase"`
	Status       Status `json:"status" yaml:"status"`
	CanReopen    bool   `json:"can_reopen" yaml:"can_reopen"`
	ReopenTarget string `json:"reopen_target,omitempty" yaml:"reopen_target,omitempty"`
}

// Classify maps a phase id to its Classification. Unknown phases are
// Unclassified, which is neither open nor closed.
func Classify(phaseID string) Classification {
	c := Classification{Phase: phaseID}
	switch {
	case openPhases[phaseID]:
		c.Status = Open
	case closedPhases[phaseID]:
		c.Status = Closed
		if target, ok := reopenTargets[phaseID]; ok {
			c.CanReopen = true
			c.ReopenTarget = target
		}
	}
	return c
}

func IsOpen(phaseID string) bool {
	return Classify(phaseID).Status == Open
}

func IsClosed(phaseID string) bool {
	return Classify(phaseID).Status == Closed
}

func IsClosedAndCanReopen(phaseID string) bool {
	return Classify(phaseID).CanReopen
}

// PhaseReader reads a defect's current phase id.
type PhaseReader interface {
	PhaseID(ctx context.Context, defectID string) (string, error)
}

// CurrentStatus fetches the defect's phase id.
func CurrentStatus(ctx context.Context, r PhaseReader, defectID string) (string, error) {
	return r.PhaseID(ctx, defectID)
}

// Transitioner performs the two writes of a reopen.
type Transitioner interface {
	TransitionToPhase(ctx context.Context, defectID, phaseID string) error
	AddComment(ctx context.Context, defectID, text string) error
}

// Reopen moves a defect out of phaseID (its current phase) and explains why
// in a comment. The two writes are independent: when the comment fails the
// defect stays reopened and the returned error says so.
func Reopen(ctx context.Context, t Transitioner, defectID, phaseID, comment string) error {
	c := Classify(phaseID)
	if !c.CanReopen {
		return octane.PreconditionError("reopen", "defect %s in phase %q cannot be reopened", defectID, phaseID)
	}
	if err := t.TransitionToPhase(ctx, defectID, c.ReopenTarget); err != nil {
		return fmt.Errorf("reopen defect %s: %w", defectID, err)
	}
	if err := t.AddComment(ctx, defectID, comment); err != nil {
		return fmt.Errorf("defect %s reopened but comment failed: %w", defectID, err)
	}
	return nil
}
