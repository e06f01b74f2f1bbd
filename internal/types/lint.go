package types

// LintResult is the outcome of linting one normalized draft. Exactly one of
// Content (accept) or Reason (reject) is meaningful; the result is produced
// and consumed within a single orchestration call.
type LintResult struct {
	OK      bool   `json:"ok"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Violation represents a single lint rule failure. The production contract
// reports only the first violation; collections of violations exist for
// debug diagnostics.
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`
}

// Accept builds a passing result carrying the compliant text.
func Accept(content string) LintResult {
	return LintResult{OK: true, Content: content}
}

// Reject builds a failing result carrying one authoritative reason.
func Reject(reason string) LintResult {
	return LintResult{OK: false, Reason: reason}
}
