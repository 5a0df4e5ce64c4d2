package domain

// PreCommitReport is what the pre-commit hook prints. Only JSON errors block.
type PreCommitReport struct {
	SkippedFor  string   `json:"skipped_for,omitempty"`
	StagedFiles int      `json:"staged_files"`
	JSONErrors  []string `json:"json_errors,omitempty"`
	LintIssues  bool     `json:"lint_issues"`
	LintNote    string   `json:"lint_note,omitempty"`
	Sensitive   []string `json:"sensitive,omitempty"`
}

func (r *PreCommitReport) Blocked() bool {
	return len(r.JSONErrors) > 0
}
