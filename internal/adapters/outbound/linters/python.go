package linters

import (
	"context"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// Python runs ruff (fix, verify, format) with mypy as an optional typecheck.
type Python struct{ d Deps }

func NewPython(d Deps) *Python { return &Python{d: d} }

func (p *Python) Category() domain.Category { return domain.CategoryPython }

func (p *Python) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 {
		return domain.CategoryResult{Success: true}
	}
	d := p.d
	return d.run(ctx, p.Category(), []step{
		{kind: stepFix, tool: "ruff", cmd: d.command(root, "ruff", defaultTimeout, []string{"ruff", "check", "--fix", "--select=E,F,W,I"}, files...)},
		{kind: stepTypecheck, tool: "mypy", optional: true, cmd: d.command(root, "mypy", typecheckTimeout, []string{"mypy", "--ignore-missing-imports"}, files...)},
		{kind: stepVerify, tool: "ruff", cmd: d.command(root, "ruff", defaultTimeout, []string{"ruff", "check", "--select=E,F,W"}, files...)},
		{kind: stepFormat, tool: "ruff", cmd: d.command(root, "ruff", defaultTimeout, []string{"ruff", "format"}, files...)},
	})
}
