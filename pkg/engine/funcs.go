package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/arthur-debert/outfit/pkg/columns"
	"github.com/arthur-debert/outfit/pkg/icons"
	"github.com/arthur-debert/outfit/pkg/tabular"
)

// funcMap builds the helper set for one execution. Helpers take the piped
// value as their last argument, so {{ .Name | col 10 "right" }} works.
func funcMap(env Env, depth int) template.FuncMap {
	funcs := sprig.TxtFuncMap()

	funcs["nl"] = func(v ...interface{}) string {
		if len(v) == 0 {
			return "\n"
		}
		return toString(v[len(v)-1]) + "\n"
	}
	funcs["col"] = colHelper
	funcs["pad_left"] = padHelper(columns.PadLeft)
	funcs["pad_right"] = padHelper(columns.PadRight)
	funcs["pad_center"] = padHelper(columns.PadCenter)
	funcs["truncate_at"] = truncateHelper
	funcs["display_width"] = func(v interface{}) int {
		return columns.DisplayWidth(toString(v))
	}
	funcs["style"] = func(name string, v ...interface{}) string {
		var text string
		if len(v) > 0 {
			text = toString(v[len(v)-1])
		}
		return "[" + name + "]" + text + "[/" + name + "]"
	}
	funcs["icon"] = func(name string) string {
		return icons.Get(name, env.Icons)
	}
	funcs["ctx"] = func(key string) interface{} {
		return env.Context[key]
	}
	funcs["term_width"] = func() int {
		return env.Width
	}
	funcs["tabular"] = func(specs ...string) (*tabular.Table, error) {
		t, err := tabular.Parse(specs...)
		if err != nil {
			return nil, err
		}
		if env.Width > 0 {
			t = t.WithWidth(env.Width)
		}
		return t, nil
	}
	funcs["include"] = func(name string, data ...interface{}) (string, error) {
		if env.Includer == nil {
			return "", fmt.Errorf("include %q: no template registry available", name)
		}
		src, err := env.Includer.Lookup(name)
		if err != nil {
			return "", err
		}
		var d interface{}
		if len(data) > 0 {
			d = data[len(data)-1]
		}
		return execute(src, d, env, depth+1)
	}
	return funcs
}

// colHelper is col WIDTH [ALIGN [TRUNCATE]] VALUE.
func colHelper(width interface{}, rest ...interface{}) (string, error) {
	w, err := toInt(width)
	if err != nil {
		return "", fmt.Errorf("col: %w", err)
	}
	if len(rest) == 0 || len(rest) > 3 {
		return "", fmt.Errorf("col: expected width, optional align and truncate, then a value")
	}
	value := toString(rest[len(rest)-1])
	opts := rest[:len(rest)-1]

	align := columns.AlignLeft
	if len(opts) > 0 {
		if align, err = columns.ParseAlign(toString(opts[0])); err != nil {
			return "", fmt.Errorf("col: %w", err)
		}
	}
	where := columns.TruncateEnd
	if len(opts) > 1 {
		if where, err = columns.ParseTruncation(toString(opts[1])); err != nil {
			return "", fmt.Errorf("col: %w", err)
		}
	}
	return columns.Fit(value, w, align, where), nil
}

func padHelper(pad func(string, int) string) func(interface{}, interface{}) (string, error) {
	return func(width interface{}, v interface{}) (string, error) {
		w, err := toInt(width)
		if err != nil {
			return "", err
		}
		return pad(toString(v), w), nil
	}
}

// truncateHelper is truncate_at WIDTH [WHERE [ELLIPSIS]] VALUE.
func truncateHelper(width interface{}, rest ...interface{}) (string, error) {
	w, err := toInt(width)
	if err != nil {
		return "", fmt.Errorf("truncate_at: %w", err)
	}
	if len(rest) == 0 || len(rest) > 3 {
		return "", fmt.Errorf("truncate_at: expected width, optional position and ellipsis, then a value")
	}
	value := toString(rest[len(rest)-1])
	opts := rest[:len(rest)-1]

	where := columns.TruncateEnd
	if len(opts) > 0 {
		if where, err = columns.ParseTruncation(toString(opts[0])); err != nil {
			return "", fmt.Errorf("truncate_at: %w", err)
		}
	}
	ellipsis := columns.Ellipsis
	if len(opts) > 1 {
		ellipsis = toString(opts[1])
	}
	return columns.TruncateAt(value, w, where, ellipsis), nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("width %v is not a number", v)
	}
}
