package linters

import (
	"context"
	"os"
	"path/filepath"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// Go formats with gofmt and vets modules with go vet.
type Go struct{ d Deps }

func NewGo(d Deps) *Go { return &Go{d: d} }

func (g *Go) Category() domain.Category { return domain.CategoryGo }

func (g *Go) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 {
		return domain.CategoryResult{Success: true}
	}
	d := g.d
	steps := []step{
		{kind: stepFix, tool: "gofmt", cmd: d.command(root, "gofmt", defaultTimeout, []string{"gofmt", "-w"}, files...)},
	}
	// go vet needs a module; loose .go files are only formatted.
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
		steps = append(steps, step{kind: stepVerify, tool: "go", optional: true, cmd: d.command(root, "go", defaultTimeout, []string{"go", "vet", "./..."})})
	}
	return d.run(ctx, g.Category(), steps)
}
