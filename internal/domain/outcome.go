package domain

import "time"

// MaxIterations bounds the auto-fix loop.
const MaxIterations = 5

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeBlockedUnfixableLint
	OutcomeBlockedStructural
	OutcomeMaxIterationsExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "Success"
	case OutcomeBlockedUnfixableLint:
		return "BlockedUnfixableLint"
	case OutcomeBlockedStructural:
		return "BlockedStructural"
	case OutcomeMaxIterationsExhausted:
		return "MaxIterationsExhausted"
	}
	return "Unknown"
}

func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ConvergenceOutcome is the terminal state of one auto-fix loop run.
type ConvergenceOutcome struct {
	Kind           OutcomeKind `json:"outcome"`
	FailingPlugins []string    `json:"failing_plugins,omitempty"`
	Iterations     int         `json:"iterations"`
	Commits        int         `json:"commits"`
}

func (o *ConvergenceOutcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// RunRecord is one persisted auto-fix loop run.
type RunRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	CommitHash     string    `json:"commit_hash,omitempty"`
	Outcome        string    `json:"outcome"`
	Iterations     int       `json:"iterations"`
	Commits        int       `json:"commits"`
	FailingPlugins []string  `json:"failing_plugins,omitempty"`
}

func NewRunRecord(o *ConvergenceOutcome, commit string, at time.Time) RunRecord {
	return RunRecord{
		Timestamp:      at,
		CommitHash:     commit,
		Outcome:        o.Kind.String(),
		Iterations:     o.Iterations,
		Commits:        o.Commits,
		FailingPlugins: o.FailingPlugins,
	}
}
