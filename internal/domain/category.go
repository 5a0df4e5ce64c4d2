package domain

import (
	"fmt"
	"strings"
)

// Category is a language/file family handled by one linter adapter.
type Category int

const (
	CategoryPython Category = iota
	CategoryJavaScript
	CategoryShell
	CategoryGo
	CategoryRust
	CategoryMarkdown
	CategoryJSON
	CategoryYAML
)

var AllCategories = []Category{
	CategoryPython,
	CategoryJavaScript,
	CategoryShell,
	CategoryGo,
	CategoryRust,
	CategoryMarkdown,
	CategoryJSON,
	CategoryYAML,
}

func (c Category) String() string {
	switch c {
	case CategoryPython:
		return "python"
	case CategoryJavaScript:
		return "javascript"
	case CategoryShell:
		return "shell"
	case CategoryGo:
		return "go"
	case CategoryRust:
		return "rust"
	case CategoryMarkdown:
		return "markdown"
	case CategoryJSON:
		return "json"
	case CategoryYAML:
		return "yaml"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if c.String() == strings.ToLower(s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Extensions lists the file extensions that belong to the category.
func (c Category) Extensions() []string {
	switch c {
	case CategoryPython:
		return []string{".py"}
	case CategoryJavaScript:
		return []string{".js", ".ts", ".jsx", ".tsx"}
	case CategoryShell:
		return []string{".sh", ".bash"}
	case CategoryGo:
		return []string{".go"}
	case CategoryRust:
		return []string{".rs"}
	case CategoryMarkdown:
		return []string{".md", ".mdx"}
	case CategoryJSON:
		return []string{".json"}
	case CategoryYAML:
		return []string{".yml", ".yaml"}
	}
	return nil
}

var extIndex = func() map[string]Category {
	m := make(map[string]Category)
	for _, c := range AllCategories {
		for _, ext := range c.Extensions() {
			m[ext] = c
		}
	}
	return m
}()

// CategoryForExt maps a lower-case extension (with dot) to its category.
func CategoryForExt(ext string) (Category, bool) {
	c, ok := extIndex[strings.ToLower(ext)]
	return c, ok
}

// CategoryFiles groups the files of one category found in a tree.
type CategoryFiles struct {
	Category Category `json:"category"`
	Files    []string `json:"files"`
}

// CategoryResult is the outcome of one linter adapter run. Err is set when
// the working tree could not be inspected; the loop must stop on it.
type CategoryResult struct {
	Success      bool  `json:"success"`
	FilesChanged bool  `json:"files_changed"`
	Err          error `json:"-"`
}

// Unfixable means the category failed and nothing the tools did changed that.
func (r CategoryResult) Unfixable() bool {
	return !r.Success && !r.FilesChanged
}
