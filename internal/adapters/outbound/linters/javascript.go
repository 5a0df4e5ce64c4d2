package linters

import (
	"context"
	"os"
	"path/filepath"

	"github.com/openkraft/pluginpipe/internal/domain"
)

var eslintConfigs = []string{
	".eslintrc",
	".eslintrc.js",
	".eslintrc.cjs",
	".eslintrc.json",
	".eslintrc.yml",
	".eslintrc.yaml",
	"eslint.config.js",
	"eslint.config.mjs",
	"eslint.config.cjs",
}

// JavaScript runs eslint, but only in projects that configure it.
type JavaScript struct{ d Deps }

func NewJavaScript(d Deps) *JavaScript { return &JavaScript{d: d} }

func (j *JavaScript) Category() domain.Category { return domain.CategoryJavaScript }

func (j *JavaScript) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 || !hasAny(root, eslintConfigs) {
		j.d.Log.Debugw("No eslint configuration, skipping", "category", j.Category())
		return domain.CategoryResult{Success: true}
	}
	eslint := j.d.nodeInvocation(ctx, root, "eslint", "eslint", "eslint")
	if eslint == nil {
		return domain.CategoryResult{Success: true}
	}

	d := j.d
	return d.run(ctx, j.Category(), []step{
		{kind: stepFix, optional: true, cmd: d.command(root, "eslint", defaultTimeout, append(eslint, "--fix"), files...)},
		{kind: stepVerify, optional: true, cmd: d.command(root, "eslint", defaultTimeout, eslint, files...)},
	})
}

func hasAny(root string, names []string) bool {
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(root, n)); err == nil {
			return true
		}
	}
	return false
}
