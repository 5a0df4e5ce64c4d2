package domain

type FixOptions struct {
	DryRun bool `json:"dry_run"`
}

// FixAction is one remedy the hook manager applied or would apply.
type FixAction struct {
	Action      string `json:"action"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Applied     bool   `json:"applied"`
}

type FixReport struct {
	Applied  int         `json:"applied"`
	Actions  []FixAction `json:"actions"`
	Failures []Issue     `json:"failures,omitempty"`
}
