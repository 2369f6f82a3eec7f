package wizard

import (
	"fmt"
	"sync"

	"github.com/jonathan/resume-wizard/internal/types"
)

// Location is the shareable navigation context: enough state to reproduce the
// wizard position from a link or a saved session. Every transition updates it;
// transitions never trigger remote persistence themselves.
type Location struct {
	Step      StepKey
	SessionID string
}

// TransitionFunc observes navigation changes (for URL/state propagation).
type TransitionFunc func(Location)

// Options configures a new Machine.
type Options struct {
	// InitialStep restores the wizard to a specific step; empty means the
	// first step in the descriptor table.
	InitialStep StepKey
	// SessionID is the restored session identifier, if any.
	SessionID string
	// Draft seeds the aggregate, typically from a resume-data snapshot.
	Draft *types.ResumeDraft
	// OnTransition, if set, is called after every step transition.
	OnTransition TransitionFunc
}

// Machine is the wizard state machine. It owns the draft aggregate, tracks the
// single current step, and is the only merge entry point into the draft. All
// methods are serialized by a mutex: one writer at a time, matching the
// one-interactive-step-at-a-time discipline of the editor.
type Machine struct {
	mu           sync.Mutex
	current      int
	sessionID    string
	draft        *types.ResumeDraft
	validator    *Validator
	seq          map[StepKey]uint64
	lastObserved map[StepKey]uint64
	onTransition TransitionFunc
}

// New creates a machine positioned at opts.InitialStep (or the first step).
func New(opts Options) (*Machine, error) {
	start := 0
	if opts.InitialStep != "" {
		idx, ok := stepIndex[opts.InitialStep]
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", opts.InitialStep)
		}
		start = idx
	}
	draft := opts.Draft
	if draft == nil {
		draft = &types.ResumeDraft{}
	}
	return &Machine{
		current:      start,
		sessionID:    opts.SessionID,
		draft:        draft.Clone(),
		validator:    NewValidator(),
		seq:          make(map[StepKey]uint64),
		lastObserved: make(map[StepKey]uint64),
		onTransition: opts.OnTransition,
	}, nil
}

// Current returns the active step descriptor.
func (m *Machine) Current() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Steps[m.current]
}

// Location returns the shareable navigation context.
func (m *Machine) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locationLocked()
}

func (m *Machine) locationLocked() Location {
	return Location{Step: Steps[m.current].Key, SessionID: m.sessionID}
}

// Advance moves to the step immediately following the current one. At the last
// step it is a no-op; there is no terminal state.
func (m *Machine) Advance() Step {
	m.mu.Lock()
	if m.current < len(Steps)-1 {
		m.current++
		m.notifyLocked()
	}
	s := Steps[m.current]
	m.mu.Unlock()
	return s
}

// JumpTo moves directly to an arbitrary valid step, forward or backward. Used
// after remote operations that conditionally skip the user ahead.
func (m *Machine) JumpTo(key StepKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := stepIndex[key]
	if !ok {
		return fmt.Errorf("unknown step: %s", key)
	}
	if idx != m.current {
		m.current = idx
		m.notifyLocked()
	}
	return nil
}

func (m *Machine) notifyLocked() {
	if m.onTransition != nil {
		m.onTransition(m.locationLocked())
	}
}

// SessionID returns the session identifier, empty if none has been bound.
func (m *Machine) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// BindSession attaches the session identifier obtained from the create-session
// call. At most one session is active per wizard instance; rebinding to a
// different identifier is an error.
func (m *Machine) BindSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		return fmt.Errorf("empty session id")
	}
	if m.sessionID != "" && m.sessionID != id {
		return fmt.Errorf("session already bound to %s", m.sessionID)
	}
	m.sessionID = id
	return nil
}

// Draft returns a deep copy of the aggregate. Callers never get a reference to
// the machine-owned state.
func (m *Machine) Draft() *types.ResumeDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.Clone()
}

// Sequence issues the next input sequence number for a step. Callers obtain it
// at input time and pass it to Apply, giving last-write-wins semantics by
// input order rather than validation completion order.
func (m *Machine) Sequence(step StepKey) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq[step]++
	return m.seq[step]
}

// Apply validates raw input for the active step and, when valid and not
// superseded, merges it into the draft. The merge is atomic: invalid input
// leaves the aggregate untouched. Applying to a step other than the active one
// is rejected, preserving the single-writer discipline.
func (m *Machine) Apply(step StepKey, seq uint64, raw any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !ValidStep(step) {
		return Result{}, fmt.Errorf("unknown step: %s", step)
	}
	if Steps[m.current].Key != step {
		return Result{}, fmt.Errorf("step %s is not active", step)
	}

	// A result from an input older than the newest one seen for this step is
	// stale no matter when its validation finished.
	if seq <= m.lastObserved[step] {
		return Result{Stale: true}, nil
	}
	m.lastObserved[step] = seq

	res := m.validator.Validate(step, raw)
	if !res.Valid {
		return res, nil
	}
	m.mergeLocked(step, res.Normalized)
	return res, nil
}

// mergeLocked writes one step's normalized payload into its slice of the
// aggregate. This is the only place the draft is mutated.
func (m *Machine) mergeLocked(step StepKey, normalized any) {
	switch step {
	case StepGeneralInfo:
		m.draft.General = normalized.(types.GeneralInfo)
	case StepPersonalInfo:
		m.draft.Personal = normalized.(types.PersonalInfo)
	case StepJobDescription:
		m.draft.Job = normalized.(types.JobDetails)
	case StepQuestionnaire:
		m.draft.Questions = normalized.([]types.Question)
	case StepOptimize:
		// nothing to merge
	case StepWorkExperience:
		m.draft.WorkExperiences = normalized.([]types.WorkExperience)
	case StepEducation:
		m.draft.Educations = normalized.([]types.Education)
	case StepProjects:
		m.draft.Projects = normalized.([]types.Project)
	case StepResearch:
		m.draft.ResearchPapers = normalized.([]types.ResearchPaper)
	case StepSkills:
		m.draft.Skills = normalized.([]string)
	case StepSummary:
		m.draft.Summary = normalized.(string)
	}
}

// SetQuestions replaces the questionnaire section with server-generated
// questions. This is the one merge that originates remotely rather than from
// user input; it still goes through the machine so ownership stays single.
func (m *Machine) SetQuestions(questions []types.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.Questions = append([]types.Question(nil), questions...)
}
