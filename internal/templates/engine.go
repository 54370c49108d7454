// Package templates renders email and sms bodies by plain {{key}}
// substitution. There are no conditionals or loops.
package templates

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

const (
	layoutTemplate = "layout"
	contentKey     = "content"
)

// Render replaces every {{key}} (case-insensitive) with its value. Unknown
// placeholders stay in the output.
func Render(template string, variables map[string]string) string {
	if template == "" || len(variables) == 0 {
		return template
	}

	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := template
	for _, k := range keys {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta("{{"+k+"}}"))
		out = re.ReplaceAllLiteralString(out, variables[k])
	}
	return out
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// RenderEmail renders the named email template and wraps it in the layout
// under the reserved "content" key.
func (e *Engine) RenderEmail(ctx context.Context, name string, variables map[string]string) (string, error) {
	layout, err := e.store.LoadTemplate(ctx, layoutTemplate, KindEmail)
	if err != nil {
		return "", err
	}
	body, err := e.store.LoadTemplate(ctx, name, KindEmail)
	if err != nil {
		return "", err
	}

	content := Render(body, variables)

	layoutVars := make(map[string]string, len(variables)+1)
	for k, v := range variables {
		if strings.EqualFold(k, contentKey) {
			continue
		}
		layoutVars[k] = v
	}
	layoutVars[contentKey] = content

	return Render(layout, layoutVars), nil
}

func (e *Engine) RenderSms(ctx context.Context, name string, variables map[string]string) (string, error) {
	body, err := e.store.LoadTemplate(ctx, name, KindSms)
	if err != nil {
		return "", err
	}
	return Render(body, variables), nil
}
