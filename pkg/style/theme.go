package style

import (
	"sort"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
)

// MaxAliasDepth bounds alias chains during resolution.
const MaxAliasDepth = 32

// Definition is one stylesheet entry: either an alias to another style name
// or concrete attributes with optional light/dark overlays.
type Definition struct {
	Alias      string
	Attributes Attributes
	Light      *Attributes
	Dark       *Attributes
}

// AliasOf returns a definition pointing at target.
func AliasOf(target string) Definition {
	return Definition{Alias: target}
}

// Concrete returns a non-adaptive definition.
func Concrete(attrs Attributes) Definition {
	return Definition{Attributes: attrs}
}

// IsAlias reports whether the definition points at another style.
func (d Definition) IsAlias() bool {
	return d.Alias != ""
}

// IsAdaptive reports whether the definition has a light or dark overlay.
func (d Definition) IsAdaptive() bool {
	return d.Light != nil || d.Dark != nil
}

// forMode returns the definition with the mode overlay merged into the base.
func (d Definition) forMode(mode ColorMode) Definition {
	if d.IsAlias() {
		return Definition{Alias: d.Alias}
	}
	attrs := d.Attributes
	switch mode {
	case Light:
		if d.Light != nil {
			attrs = attrs.Merge(*d.Light)
		}
	case Dark:
		if d.Dark != nil {
			attrs = attrs.Merge(*d.Dark)
		}
	}
	return Definition{Attributes: attrs}
}

// Theme maps style names to definitions. A theme built from a stylesheet
// carries the light/dark overlays; Variant flattens them for one color mode.
// Themes are immutable once constructed.
type Theme struct {
	name string
	defs map[string]Definition
}

// NewTheme validates defs and builds a theme. It rejects dangling aliases and
// alias cycles.
func NewTheme(name string, defs map[string]Definition) (*Theme, error) {
	copied := make(map[string]Definition, len(defs))
	for k, v := range defs {
		copied[k] = v
	}
	if err := validateAliases(copied); err != nil {
		if oe, ok := err.(*errors.OutfitError); ok {
			oe.WithDetail("theme", name)
		}
		return nil, err
	}
	return &Theme{name: name, defs: copied}, nil
}

// MustTheme is NewTheme for statically known definitions. It panics on error.
func MustTheme(name string, defs map[string]Definition) *Theme {
	t, err := NewTheme(name, defs)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty returns a theme with no styles.
func Empty() *Theme {
	return &Theme{name: "empty", defs: map[string]Definition{}}
}

func validateAliases(defs map[string]Definition) error {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		if !def.IsAlias() {
			continue
		}
		path := []string{name}
		visited := map[string]bool{name: true}
		cur := def.Alias
		for {
			if visited[cur] {
				chain := append(path, cur)
				return errors.Newf(errors.ErrAliasCycle, "alias cycle: %s", strings.Join(chain, " -> ")).
					WithDetail("chain", chain)
			}
			target, ok := defs[cur]
			if !ok {
				return errors.Newf(errors.ErrAliasMissing, "style %q aliases undefined style %q", path[len(path)-1], cur).
					WithDetail("style", name).
					WithDetail("target", cur)
			}
			if !target.IsAlias() {
				break
			}
			visited[cur] = true
			path = append(path, cur)
			if len(path) > MaxAliasDepth {
				return errors.Newf(errors.ErrAliasCycle, "alias chain from %q exceeds %d links", name, MaxAliasDepth)
			}
			cur = target.Alias
		}
	}
	return nil
}

// Name returns the theme name, used in diagnostics.
func (t *Theme) Name() string {
	return t.name
}

// Len returns the number of defined styles.
func (t *Theme) Len() int {
	return len(t.defs)
}

// Has reports whether name is defined (alias or concrete).
func (t *Theme) Has(name string) bool {
	_, ok := t.defs[name]
	return ok
}

// Definition returns the raw definition for name.
func (t *Theme) Definition(name string) (Definition, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// Names returns the defined style names, sorted.
func (t *Theme) Names() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsAdaptive reports whether any style carries a light or dark overlay.
func (t *Theme) IsAdaptive() bool {
	for _, d := range t.defs {
		if d.IsAdaptive() {
			return true
		}
	}
	return false
}

// Resolve follows aliases and returns the concrete attributes for name. The
// base attributes are returned for adaptive styles; call Variant first to
// pick a color mode.
func (t *Theme) Resolve(name string) (Attributes, bool) {
	if t == nil {
		return Attributes{}, false
	}
	cur := name
	for depth := 0; depth <= MaxAliasDepth; depth++ {
		def, ok := t.defs[cur]
		if !ok {
			return Attributes{}, false
		}
		if !def.IsAlias() {
			return def.Attributes, true
		}
		cur = def.Alias
	}
	return Attributes{}, false
}

// Variant returns the theme specialized to mode: every concrete style has
// its overlay merged in, aliases are preserved. Key sets are identical for
// every mode.
func (t *Theme) Variant(mode ColorMode) *Theme {
	defs := make(map[string]Definition, len(t.defs))
	for name, d := range t.defs {
		defs[name] = d.forMode(mode)
	}
	return &Theme{name: t.name, defs: defs}
}

// Extend returns a new theme with other's definitions layered over t's.
// The combined set is revalidated, since an override may break an alias.
func (t *Theme) Extend(other *Theme) (*Theme, error) {
	return t.With(other.name, other.defs)
}

// With returns a theme named name holding t's definitions overridden by
// defs. Aliases in defs may target any style of t.
func (t *Theme) With(name string, defs map[string]Definition) (*Theme, error) {
	merged := make(map[string]Definition, len(t.defs)+len(defs))
	for k, v := range t.defs {
		merged[k] = v
	}
	for k, v := range defs {
		merged[k] = v
	}
	return NewTheme(name, merged)
}
