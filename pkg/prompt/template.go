package prompt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"
)

// Template is a text/template with an optional function map whose source is
// either a file on disk or an in-memory string.
type Template struct {
	name   string
	funcs  template.FuncMap
	source func() ([]byte, error)

	mu   sync.RWMutex
	tmpl *template.Template
	hash string
}

// NewTemplate parses the template at path using the provided template functions.
func NewTemplate(path string, funcs template.FuncMap) (*Template, error) {
	if path == "" {
		return nil, fmt.Errorf("prompt template path is empty")
	}
	t := &Template{
		name:  filepath.Base(path),
		funcs: funcs,
		source: func() ([]byte, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read prompt template %q: %w", path, err)
			}
			return data, nil
		},
	}
	if err := t.reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse builds a Template from text, typically an embedded default.
func Parse(name, text string, funcs template.FuncMap) (*Template, error) {
	t := &Template{
		name:  name,
		funcs: funcs,
		source: func() ([]byte, error) {
			return []byte(text), nil
		},
	}
	if err := t.reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the template name (the file base name for file templates).
func (t *Template) Name() string {
	return t.name
}

// Render executes the template with the provided data and returns the rendered string.
func (t *Template) Render(data any) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.tmpl == nil {
		return "", fmt.Errorf("prompt template %q not parsed", t.name)
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template %q: %w", t.name, err)
	}
	return buf.String(), nil
}

// Reload reparses the template from its source. A failed reload keeps the
// previously parsed template.
func (t *Template) Reload() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reload()
}

func (t *Template) reload() error {
	data, err := t.source()
	if err != nil {
		return err
	}

	tmpl := template.New(t.name).Option("missingkey=error")
	if len(t.funcs) > 0 {
		tmpl = tmpl.Funcs(t.funcs)
	}
	if _, err := tmpl.Parse(string(data)); err != nil {
		return fmt.Errorf("parse prompt template %q: %w", t.name, err)
	}
	t.tmpl = tmpl
	t.hash = digest(data)
	return nil
}

// Digest returns the sha256 hash of the template content.
func (t *Template) Digest() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hash
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
