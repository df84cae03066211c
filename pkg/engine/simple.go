package engine

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
)

// simpleRef matches {name} and {name.sub.path}.
var simpleRef = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z0-9_]+)*)\}`)

func executeSimple(src Source, data interface{}) (string, error) {
	var firstErr error
	out := simpleRef.ReplaceAllStringFunc(string(src.Content), func(ref string) string {
		if firstErr != nil {
			return ref
		}
		path := ref[1 : len(ref)-1]
		v, ok := lookupPath(data, strings.Split(path, "."))
		if !ok {
			name := templateName(src)
			firstErr = errors.Newf(errors.ErrTemplateExec, "template %q: no value for {%s}", name, path).
				WithDetail("template", name).
				WithDetail("variable", path)
			return ref
		}
		return toString(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// checkSimple accepts any content: unmatched braces are literal text.
func checkSimple(Source) error {
	return nil
}

// lookupPath walks maps, structs (by field name or json tag) and slices (by
// index) along path.
func lookupPath(data interface{}, path []string) (interface{}, bool) {
	cur := reflect.ValueOf(data)
	for _, key := range path {
		cur = indirect(cur)
		if !cur.IsValid() {
			return nil, false
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v := cur.MapIndex(reflect.ValueOf(key).Convert(cur.Type().Key()))
			if !v.IsValid() {
				return nil, false
			}
			cur = v
		case reflect.Struct:
			f, ok := structField(cur, key)
			if !ok {
				return nil, false
			}
			cur = f
		case reflect.Slice, reflect.Array:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(i)
		default:
			return nil, false
		}
	}
	cur = indirect(cur)
	if !cur.IsValid() {
		return nil, true
	}
	return cur.Interface(), true
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structField(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == key || (tag == "" && f.Name == key) || strings.EqualFold(f.Name, key) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
