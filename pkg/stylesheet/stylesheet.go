// Package stylesheet parses YAML stylesheets into themes.
//
// Top-level keys are style names. A value is one of:
//
//	title: bold                     # single token: attribute keyword or color
//	note: yellow italic             # shorthand: keywords plus at most one color
//	badge: white on blue bold       # "on <color>" sets the background
//	plain: no-bold                  # "no-<attr>" explicitly disables
//	fail: error                     # alias, when no attribute reading exists
//	panel:                          # structured record with mode overlays
//	  fg: gray
//	  bold: true
//	  light: {fg: black}
//	  dark: {fg: white}
//
// Color fields accept an ANSI name, a 0-255 palette index, #rrggbb or a
// three-integer list.
package stylesheet

import (
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/style"
	"gopkg.in/yaml.v3"
)

// Parse decodes a stylesheet document and validates it as a theme named name.
func Parse(name string, data []byte) (*style.Theme, error) {
	return ParseOver(nil, name, data)
}

// ParseOver decodes a stylesheet that extends base: the theme holds base's
// styles overridden by the document's, and aliases may target base styles.
// A nil base is an empty one.
func ParseOver(base *style.Theme, name string, data []byte) (*style.Theme, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStylesheetParse, "stylesheet %q is not valid YAML", name).
			WithDetail("theme", name)
	}
	return parseNode(base, name, &doc)
}

// ParseNode builds a theme from an already decoded YAML node.
func ParseNode(name string, node *yaml.Node) (*style.Theme, error) {
	return parseNode(nil, name, node)
}

func parseNode(base *style.Theme, name string, node *yaml.Node) (*style.Theme, error) {
	logger := logging.GetLogger("stylesheet")
	if base == nil {
		base = style.Empty()
	}

	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return base.With(name, nil)
		}
		node = node.Content[0]
	}
	if node.Kind == 0 || node.Tag == "!!null" {
		return base.With(name, nil)
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrStylesheetParse, "stylesheet %q: top level must be a mapping of style names", name).
			WithDetail("theme", name).
			WithDetail("line", node.Line)
	}

	p := &parser{theme: name, names: make(map[string]bool, len(node.Content)/2+base.Len())}
	for _, n := range base.Names() {
		p.names[n] = true
	}
	for i := 0; i < len(node.Content); i += 2 {
		p.names[node.Content[i].Value] = true
	}

	defs := make(map[string]style.Definition, len(p.names))
	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if !ValidStyleName(key.Value) {
			return nil, p.fail(key, key.Value, errors.ErrStylesheetParse, "invalid style name %q", key.Value)
		}
		if _, dup := defs[key.Value]; dup {
			return nil, p.fail(key, key.Value, errors.ErrStylesheetParse, "style %q defined twice", key.Value)
		}
		def, err := p.definition(key.Value, value)
		if err != nil {
			return nil, err
		}
		defs[key.Value] = def
	}

	theme, err := base.With(name, defs)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("theme", name).Int("styles", theme.Len()).Msg("stylesheet parsed")
	return theme, nil
}

// ValidStyleName reports whether s can be used inside a [name] marker.
func ValidStyleName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

type parser struct {
	theme string
	names map[string]bool
}

func (p *parser) fail(node *yaml.Node, styleName string, code errors.ErrorCode, format string, args ...interface{}) error {
	return errors.Newf(code, "stylesheet %q: "+format, append([]interface{}{p.theme}, args...)...).
		WithDetail("theme", p.theme).
		WithDetail("style", styleName).
		WithDetail("line", node.Line)
}

func (p *parser) definition(name string, node *yaml.Node) (style.Definition, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return p.scalar(name, node)
	case yaml.MappingNode:
		return p.record(name, node)
	default:
		return style.Definition{}, p.fail(node, name, errors.ErrStylesheetParse,
			"style %q must be a string or a mapping", name)
	}
}

// scalar handles single tokens, shorthand strings and aliases.
func (p *parser) scalar(name string, node *yaml.Node) (style.Definition, error) {
	tokens := strings.Fields(node.Value)
	if len(tokens) == 0 {
		return style.Concrete(style.Attributes{}), nil
	}

	if len(tokens) == 1 {
		attrs, ok := singleToken(tokens[0])
		if ok {
			return style.Concrete(attrs), nil
		}
		if p.names[tokens[0]] {
			return style.AliasOf(tokens[0]), nil
		}
		return style.Definition{}, p.fail(node, name, errors.ErrUnknownAttribute,
			"style %q: %q is not an attribute, a color or a defined style", name, tokens[0])
	}

	attrs, err := p.shorthand(name, node, tokens)
	if err != nil {
		return style.Definition{}, err
	}
	return style.Concrete(attrs), nil
}

func singleToken(tok string) (style.Attributes, bool) {
	var attrs style.Attributes
	if applyFlagToken(&attrs, tok) {
		return attrs, true
	}
	if c, err := style.ParseColor(tok); err == nil {
		attrs.Foreground = c
		return attrs, true
	}
	return attrs, false
}

// applyFlagToken sets "bold" on or "no-bold" off.
func applyFlagToken(attrs *style.Attributes, tok string) bool {
	lower := strings.ToLower(tok)
	if off, found := strings.CutPrefix(lower, "no-"); found {
		return attrs.SetFlag(off, style.FlagOff)
	}
	return attrs.SetFlag(lower, style.FlagOn)
}

func (p *parser) shorthand(name string, node *yaml.Node, tokens []string) (style.Attributes, error) {
	var attrs style.Attributes
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if applyFlagToken(&attrs, tok) {
			continue
		}
		if strings.EqualFold(tok, "on") {
			if i+1 >= len(tokens) {
				return attrs, p.fail(node, name, errors.ErrUnknownAttribute, "style %q: \"on\" needs a background color", name)
			}
			i++
			c, err := style.ParseColor(tokens[i])
			if err != nil {
				return attrs, p.fail(node, name, errors.ErrInvalidColor, "style %q: invalid background %q", name, tokens[i])
			}
			if attrs.Background.IsSet() {
				return attrs, p.fail(node, name, errors.ErrUnknownAttribute, "style %q: more than one background color", name)
			}
			attrs.Background = c
			continue
		}
		c, err := style.ParseColor(tok)
		if err != nil {
			return attrs, p.fail(node, name, errors.ErrUnknownAttribute, "style %q: unknown token %q", name, tok)
		}
		if attrs.Foreground.IsSet() {
			return attrs, p.fail(node, name, errors.ErrUnknownAttribute, "style %q: more than one color in %q", name, node.Value)
		}
		attrs.Foreground = c
	}
	return attrs, nil
}

// record handles the structured form.
func (p *parser) record(name string, node *yaml.Node) (style.Definition, error) {
	var def style.Definition
	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch field := strings.ToLower(key.Value); field {
		case "light", "dark":
			overlay, err := p.overlay(name, value)
			if err != nil {
				return def, err
			}
			if field == "light" {
				def.Light = &overlay
			} else {
				def.Dark = &overlay
			}
		case "alias":
			if value.Kind != yaml.ScalarNode || !p.names[value.Value] {
				return def, p.fail(value, name, errors.ErrAliasMissing, "style %q aliases undefined style %q", name, value.Value)
			}
			def.Alias = value.Value
		default:
			if err := p.field(name, &def.Attributes, field, value); err != nil {
				return def, err
			}
		}
	}
	if def.IsAlias() && (!def.Attributes.IsZero() || def.IsAdaptive()) {
		return def, p.fail(node, name, errors.ErrStylesheetParse, "style %q mixes an alias with attributes", name)
	}
	return def, nil
}

// overlay accepts either a shorthand string or a record without nested modes.
func (p *parser) overlay(name string, node *yaml.Node) (style.Attributes, error) {
	var attrs style.Attributes
	switch node.Kind {
	case yaml.ScalarNode:
		tokens := strings.Fields(node.Value)
		if len(tokens) == 1 {
			if a, ok := singleToken(tokens[0]); ok {
				return a, nil
			}
			return attrs, p.fail(node, name, errors.ErrUnknownAttribute, "style %q: unknown token %q", name, tokens[0])
		}
		return p.shorthand(name, node, tokens)
	case yaml.MappingNode:
		for i := 0; i < len(node.Content); i += 2 {
			field := strings.ToLower(node.Content[i].Value)
			if field == "light" || field == "dark" || field == "alias" {
				return attrs, p.fail(node.Content[i], name, errors.ErrStylesheetParse,
					"style %q: %q is not allowed inside a mode overlay", name, field)
			}
			if err := p.field(name, &attrs, field, node.Content[i+1]); err != nil {
				return attrs, err
			}
		}
		return attrs, nil
	default:
		return attrs, p.fail(node, name, errors.ErrStylesheetParse, "style %q: mode overlay must be a string or a mapping", name)
	}
}

func (p *parser) field(name string, attrs *style.Attributes, field string, value *yaml.Node) error {
	switch field {
	case "fg", "foreground", "color":
		c, err := p.color(name, value)
		if err != nil {
			return err
		}
		attrs.Foreground = c
		return nil
	case "bg", "background":
		c, err := p.color(name, value)
		if err != nil {
			return err
		}
		attrs.Background = c
		return nil
	}

	if !style.IsAttributeName(field) {
		return p.fail(value, name, errors.ErrUnknownAttribute, "style %q: unknown attribute %q", name, field)
	}
	var on bool
	if err := value.Decode(&on); err != nil {
		return p.fail(value, name, errors.ErrStylesheetParse, "style %q: %s must be true or false", name, field)
	}
	attrs.SetFlag(field, style.FlagFrom(on))
	return nil
}

func (p *parser) color(name string, node *yaml.Node) (style.Color, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		c, err := style.ParseColor(node.Value)
		if err != nil {
			return c, p.fail(node, name, errors.ErrInvalidColor, "style %q: invalid color %q", name, node.Value)
		}
		return c, nil
	case yaml.SequenceNode:
		var triple []int
		if err := node.Decode(&triple); err != nil {
			return style.Color{}, p.fail(node, name, errors.ErrInvalidColor, "style %q: color list must hold integers", name)
		}
		c, err := style.ColorFromTriple(triple)
		if err != nil {
			return c, p.fail(node, name, errors.ErrInvalidColor, "style %q: %v", name, err)
		}
		return c, nil
	default:
		return style.Color{}, p.fail(node, name, errors.ErrInvalidColor, "style %q: invalid color value", name)
	}
}
