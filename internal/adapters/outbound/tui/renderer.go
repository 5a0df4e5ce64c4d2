package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/pluginpipe/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	orange  = lipgloss.Color("#FB923C")
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	severityStyles = map[domain.Severity]lipgloss.Style{
		domain.SeverityCritical: lipgloss.NewStyle().Foreground(danger).Bold(true),
		domain.SeverityMajor:    lipgloss.NewStyle().Foreground(orange).Bold(true),
		domain.SeverityMinor:    lipgloss.NewStyle().Foreground(warning),
		domain.SeverityInfo:     lipgloss.NewStyle().Foreground(info),
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

func header(subtitle, detail string) string {
	title := headerStyle.Render("pluginpipe")
	return boxStyle.Render(title+"\n"+dimStyle.Render(subtitle)+"\n\n"+detail) + "\n\n"
}

func mark(ok bool) string {
	if ok {
		return passStyle.Render("✓")
	}
	return failStyle.Render("✗")
}

// RenderStatus formats a validation report. It shows exactly the fields of
// the JSON report.
func RenderStatus(r domain.StatusReport) string {
	var b strings.Builder

	verdict := failStyle.Bold(true).Render("INVALID")
	if r.IsValid {
		verdict = passStyle.Bold(true).Render("VALID")
	}
	b.WriteString(header("Pipeline Status", titleStyle.Render(r.ProjectType.String())+"  "+verdict))
	b.WriteString("  " + dimStyle.Render(r.ProjectPath) + "\n\n")

	b.WriteString("  " + titleStyle.Render("Hooks") + "\n")
	for _, h := range domain.RequiredHooks {
		if installed, ok := r.Hooks[h.Name]; ok {
			fmt.Fprintf(&b, "    %s %s\n", mark(installed), h.Name)
		}
	}

	b.WriteString("\n  " + titleStyle.Render("Config files") + "\n")
	for _, name := range domain.ConfigFileOrder {
		if present, ok := r.ConfigFiles[name]; ok {
			fmt.Fprintf(&b, "    %s %s\n", mark(present), name)
		}
	}

	if len(r.Submodules) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Submodules") + "\n")
		for _, s := range r.Submodules {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(s))
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	renderIssues(&b, r.Issues, r.Summary)
	return b.String()
}

func renderIssues(b *strings.Builder, issues []domain.Issue, sum domain.Summary) {
	if len(issues) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return
	}

	b.WriteString("  " + titleStyle.Render("Issues"))
	counts := []struct {
		sev domain.Severity
		n   int
	}{
		{domain.SeverityCritical, sum.Critical},
		{domain.SeverityMajor, sum.Major},
		{domain.SeverityMinor, sum.Minor},
		{domain.SeverityInfo, sum.Info},
	}
	for _, c := range counts {
		if c.n > 0 {
			b.WriteString("  " + severityStyles[c.sev].Render(fmt.Sprintf("%d %s", c.n, strings.ToLower(c.sev.String()))))
		}
	}
	b.WriteString("\n\n")

	for _, i := range issues {
		fmt.Fprintf(b, "    %s %s %s\n", severityTag(i.Severity), faintStyle.Render("["+i.Component+"]"), i.Message)
		if i.FixAvailable {
			fmt.Fprintf(b, "             %s\n", dimStyle.Render("fix: "+i.FixDescription))
		}
	}
}

func severityTag(sev domain.Severity) string {
	return severityStyles[sev].Render(fmt.Sprintf("%-8s", sev.String()))
}

// RenderFix formats the actions of a fix run.
func RenderFix(r *domain.FixReport, dryRun bool) string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Fixes"))
	if dryRun {
		b.WriteString("  " + warnStyle.Render("dry run"))
	}
	b.WriteString("\n\n")

	if len(r.Actions) == 0 {
		b.WriteString("    " + dimStyle.Render("Nothing to fix.") + "\n")
		return b.String()
	}

	for _, a := range r.Actions {
		switch {
		case dryRun:
			fmt.Fprintf(&b, "    %s %s  %s\n", warnStyle.Render("~"), a.Description, faintStyle.Render(a.Path))
		case a.Applied:
			fmt.Fprintf(&b, "    %s %s  %s\n", mark(true), a.Description, faintStyle.Render(a.Path))
		default:
			fmt.Fprintf(&b, "    %s %s  %s\n", mark(false), a.Description, faintStyle.Render(a.Path))
		}
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "    %s %s\n", severityTag(f.Severity), f.Message)
	}

	if !dryRun {
		fmt.Fprintf(&b, "\n    %s\n", dimStyle.Render(fmt.Sprintf("%d change(s) applied", r.Applied)))
	}
	return b.String()
}

// RenderOutcome formats the result of an auto-fix run.
func RenderOutcome(o *domain.ConvergenceOutcome) string {
	var b strings.Builder

	name := failStyle.Bold(true).Render(o.Kind.String())
	if o.Succeeded() {
		name = passStyle.Bold(true).Render(o.Kind.String())
	}
	detail := fmt.Sprintf("%s\n%s", name,
		dimStyle.Render(fmt.Sprintf("%d iteration(s), %d commit(s)", o.Iterations, o.Commits)))
	b.WriteString(header("Auto-fix", detail))

	switch o.Kind {
	case domain.OutcomeBlockedUnfixableLint:
		b.WriteString("  " + failStyle.Render("Lint issues remain that cannot be fixed automatically.") + "\n")
	case domain.OutcomeBlockedStructural:
		b.WriteString("  " + failStyle.Render("Plugins failing structural validation:") + "\n")
		for _, p := range o.FailingPlugins {
			fmt.Fprintf(&b, "    %s %s\n", mark(false), p)
		}
	case domain.OutcomeMaxIterationsExhausted:
		b.WriteString("  " + warnStyle.Render("Files kept changing; the last round's edits are left uncommitted.") + "\n")
	default:
		b.WriteString("  " + passStyle.Render("Tree is clean and every plugin validates.") + "\n")
	}
	if o.Commits > 0 {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("%d auto-fix commit(s) were added to the branch.", o.Commits)))
	}
	return b.String()
}

// RenderHistory formats the run log, oldest first.
func RenderHistory(records []domain.RunRecord) string {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No auto-fix runs recorded.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Auto-fix History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, r := range records {
		hash := r.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		outcome := failStyle.Render(r.Outcome)
		if r.Outcome == domain.OutcomeSuccess.String() {
			outcome = passStyle.Render(r.Outcome)
		}
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			dimStyle.Render(r.Timestamp.Format("2006-01-02")),
			faintStyle.Render(hash),
			outcome,
			dimStyle.Render(fmt.Sprintf("%d iter, %d commits", r.Iterations, r.Commits)),
		)
	}
	return b.String()
}

// RenderPreCommit formats the pre-commit hook's checks.
func RenderPreCommit(r *domain.PreCommitReport) string {
	var b strings.Builder
	if r.SkippedFor != "" {
		fmt.Fprintf(&b, "[pre-commit] Skipping during %s\n", r.SkippedFor)
		return b.String()
	}

	b.WriteString("Checking JSON syntax... ")
	if len(r.JSONErrors) == 0 {
		b.WriteString(mark(true) + "\n")
	} else {
		b.WriteString(mark(false) + "\n")
		for _, e := range r.JSONErrors {
			b.WriteString("  " + failStyle.Render(e) + "\n")
		}
	}

	b.WriteString("Linting Python files... ")
	switch {
	case r.LintNote != "":
		b.WriteString(warnStyle.Render("⚠ "+r.LintNote) + "\n")
	case r.LintIssues:
		b.WriteString(warnStyle.Render("⚠ issues found (non-blocking)") + "\n")
	default:
		b.WriteString(mark(true) + "\n")
	}

	b.WriteString("Checking for sensitive data... ")
	if len(r.Sensitive) == 0 {
		b.WriteString(mark(true) + "\n")
	} else {
		b.WriteString(warnStyle.Render("⚠ review recommended") + "\n")
		for _, w := range r.Sensitive {
			b.WriteString("  " + warnStyle.Render(w) + "\n")
		}
	}

	if r.Blocked() {
		b.WriteString("\n" + failStyle.Render("Pre-commit validation failed.") + "\n")
		b.WriteString("To bypass (not recommended): git commit --no-verify\n")
	} else {
		b.WriteString(passStyle.Render("Pre-commit validations passed") + "\n")
	}
	return b.String()
}
