package engine

import (
	"strings"
	"text/template"

	"github.com/arthur-debert/outfit/pkg/errors"
)

func templateName(src Source) string {
	if src.Name == "" {
		return "inline"
	}
	return src.Name
}

func parseFull(src Source, funcs template.FuncMap) (*template.Template, error) {
	name := templateName(src)
	t, err := template.New(name).Funcs(funcs).Option("missingkey=default").Parse(string(src.Content))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateSyntax, "template %q has a syntax error", name).
			WithDetail("template", name)
	}
	return t, nil
}

func executeFull(src Source, data interface{}, env Env, depth int) (string, error) {
	t, err := parseFull(src, funcMap(env, depth))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		name := templateName(src)
		return "", errors.Wrapf(err, errors.ErrTemplateExec, "template %q failed", name).
			WithDetail("template", name)
	}
	return b.String(), nil
}
