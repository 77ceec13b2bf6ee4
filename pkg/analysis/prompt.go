package analysis

import (
	_ "embed"
	"strconv"
	"text/template"

	"github.com/dustin/go-humanize"

	"liqradar-api/pkg/prompt"
)

//go:embed analysis.tmpl
var defaultTemplate string

const defaultTemplateName = "analysis.tmpl"

// PromptFuncs are the helpers available to analysis templates:
// comma renders a number with thousands separators, num renders it in the
// shortest form without an exponent.
func PromptFuncs() template.FuncMap {
	return template.FuncMap{
		"comma": humanize.Commaf,
		"num": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
	}
}

// DefaultTemplate parses the built-in analysis prompt.
func DefaultTemplate() (*prompt.Template, error) {
	return prompt.Parse(defaultTemplateName, defaultTemplate, PromptFuncs())
}

// LoadTemplate parses the analysis prompt at path, or the built-in one when
// path is empty.
func LoadTemplate(path string) (*prompt.Template, error) {
	if path == "" {
		return DefaultTemplate()
	}
	return prompt.NewTemplate(path, PromptFuncs())
}
