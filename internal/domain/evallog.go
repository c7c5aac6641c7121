package domain

import "fmt"

// TrialRef locates the trial a diagnostic entry refers to.
type TrialRef struct {
	GameSessionID string
	RoundID       int
	TrialID       int
	TrialType     TrialType
}

// LogEntry is one diagnostic finding produced by an integrity check.
type LogEntry struct {
	// Message describes the failed check with enough context to locate
	// the offending record.
	Message string

	// Trial references the offending trial, nil for session-level
	// findings.
	Trial *TrialRef
}

// EvaluationLog is the append-only ordered sequence of data-quality
// findings accumulated during a pipeline run. Findings are diagnostic
// output alongside the Report; they never abort evaluation.
type EvaluationLog struct {
	entries []LogEntry
}

// NewEvaluationLog creates an empty log.
func NewEvaluationLog() *EvaluationLog { return &EvaluationLog{} }

// Append records a session-level finding.
func (l *EvaluationLog) Append(message string) {
	l.entries = append(l.entries, LogEntry{Message: message})
}

// AppendTrial records a finding against a specific trial.
func (l *EvaluationLog) AppendTrial(message string, trial *TrialRef) {
	l.entries = append(l.entries, LogEntry{Message: message, Trial: trial})
}

// CheckFailed records a finding for ev when passed is false, formatted
// with the trial identifiers needed to locate the record. It returns
// passed so callers can chain it into tallies.
func (l *EvaluationLog) CheckFailed(passed bool, ev *TrialEvent, extra string) bool {
	if passed {
		return true
	}
	msg := fmt.Sprintf("check failed: trialType=%s gameSessionID=%s roundID=%d trialID=%d",
		ev.TrialType, ev.GameSessionID, ev.RoundID, ev.TrialID)
	if extra != "" {
		msg += " (" + extra + ")"
	}
	l.entries = append(l.entries, LogEntry{Message: msg, Trial: ev.Ref()})
	return false
}

// Extend appends all entries of other, preserving their order.
func (l *EvaluationLog) Extend(other *EvaluationLog) {
	if other == nil {
		return
	}
	l.entries = append(l.entries, other.entries...)
}

// Entries returns the findings in append order. The returned slice must
// not be modified.
func (l *EvaluationLog) Entries() []LogEntry { return l.entries }

// Len returns the number of findings.
func (l *EvaluationLog) Len() int { return len(l.entries) }

// IsEmpty reports whether no finding has been recorded.
func (l *EvaluationLog) IsEmpty() bool { return len(l.entries) == 0 }
