package linters

import "github.com/openkraft/pluginpipe/internal/domain"

// All returns one adapter per category, in category order.
func All(d Deps) []domain.LinterAdapter {
	return []domain.LinterAdapter{
		NewPython(d),
		NewJavaScript(d),
		NewShell(d),
		NewGo(d),
		NewRust(d),
		NewMarkdown(d),
		NewJSON(d),
		NewYAML(d),
	}
}
