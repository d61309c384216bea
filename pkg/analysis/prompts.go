package analysis

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptCatalog struct {
	System  string            `yaml:"system"`
	Prompts map[string]string `yaml:"prompts"`
}

// prompts 已解析的提示词模板
type prompts struct {
	system    string
	templates map[dm.Kind]*template.Template
}

func loadPrompts(data []byte) (*prompts, error) {
	var catalog promptCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("解析提示词失败: %w", err)
	}

	p := &prompts{
		system:    strings.TrimSpace(catalog.System),
		templates: make(map[dm.Kind]*template.Template, len(dm.AllKinds)),
	}
	for _, kind := range dm.AllKinds {
		text, ok := catalog.Prompts[string(kind)]
		if !ok {
			return nil, fmt.Errorf("缺少 %s 的提示词", kind)
		}
		tmpl, err := template.New(string(kind)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("提示词模板 %s 解析失败: %w", kind, err)
		}
		p.templates[kind] = tmpl
	}
	return p, nil
}

func (p *prompts) render(kind dm.Kind, data any) (string, error) {
	tmpl, ok := p.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown analysis kind %q", kind)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
