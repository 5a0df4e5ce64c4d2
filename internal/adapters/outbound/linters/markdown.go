package linters

import (
	"context"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// Markdown runs markdownlint-cli with --fix, then again to verify.
type Markdown struct{ d Deps }

func NewMarkdown(d Deps) *Markdown { return &Markdown{d: d} }

func (m *Markdown) Category() domain.Category { return domain.CategoryMarkdown }

func (m *Markdown) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 {
		return domain.CategoryResult{Success: true}
	}
	lint := m.d.nodeInvocation(ctx, root, "markdownlint-cli", "markdownlint", "markdownlint")
	if lint == nil {
		m.d.Log.Infow("markdownlint not available, skipping", "category", m.Category())
		return domain.CategoryResult{Success: true}
	}

	d := m.d
	return d.run(ctx, m.Category(), []step{
		{kind: stepFix, optional: true, cmd: d.command(root, "markdownlint", defaultTimeout, append(lint, "--fix"), files...)},
		{kind: stepVerify, optional: true, cmd: d.command(root, "markdownlint", defaultTimeout, lint, files...)},
	})
}
