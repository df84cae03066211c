package engine

import (
	"sort"
	"strings"
	"text/template/parse"
)

// dynamic stands in for output that depends on data. It is not a marker name
// byte, so no marker forms across it.
const dynamic = "\x00"

// StaticText returns the text src produces whatever the data: literal text
// of every branch, style calls with a literal name as [name]...[/name],
// string literals, and included templates resolved through includer.
// Everything computed from data is replaced by a byte no marker can contain,
// so the markers in the result are the ones any render can produce from the
// source alone. A nil includer leaves includes out.
func StaticText(src Source, includer Includer) (string, error) {
	w := &staticWalker{includer: includer, visiting: map[string]bool{}}
	if err := w.source(src, 0); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

type staticWalker struct {
	includer Includer
	visiting map[string]bool
	b        strings.Builder
}

func (w *staticWalker) source(src Source, depth int) error {
	if src.Kind == Simple {
		w.b.WriteString(simpleRef.ReplaceAllString(string(src.Content), dynamic))
		return nil
	}

	t, err := parseFull(src, funcMap(Env{}, 0))
	if err != nil {
		return err
	}
	trees := []*parse.Tree{t.Tree}
	var defined []string
	for _, d := range t.Templates() {
		if d.Name() != t.Name() && d.Tree != nil {
			defined = append(defined, d.Name())
		}
	}
	sort.Strings(defined)
	for _, name := range defined {
		trees = append(trees, t.Lookup(name).Tree)
	}

	for _, tree := range trees {
		if tree == nil || tree.Root == nil {
			continue
		}
		w.b.WriteString(dynamic)
		if err := w.node(tree.Root, depth); err != nil {
			return err
		}
	}
	return nil
}

func (w *staticWalker) node(n parse.Node, depth int) error {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return nil
		}
		for _, child := range n.Nodes {
			if err := w.node(child, depth); err != nil {
				return err
			}
		}
	case *parse.TextNode:
		w.b.Write(n.Text)
	case *parse.ActionNode:
		w.b.WriteString(dynamic)
		if len(n.Pipe.Decl) == 0 {
			if err := w.pipe(n.Pipe, depth); err != nil {
				return err
			}
		}
		w.b.WriteString(dynamic)
	case *parse.IfNode:
		return w.branch(&n.BranchNode, depth)
	case *parse.RangeNode:
		return w.branch(&n.BranchNode, depth)
	case *parse.WithNode:
		return w.branch(&n.BranchNode, depth)
	case *parse.TemplateNode:
		w.b.WriteString(dynamic)
	}
	return nil
}

func (w *staticWalker) branch(n *parse.BranchNode, depth int) error {
	w.b.WriteString(dynamic)
	if err := w.node(n.List, depth); err != nil {
		return err
	}
	w.b.WriteString(dynamic)
	if err := w.node(n.ElseList, depth); err != nil {
		return err
	}
	w.b.WriteString(dynamic)
	return nil
}

func (w *staticWalker) pipe(p *parse.PipeNode, depth int) error {
	if p == nil {
		return nil
	}
	for _, cmd := range p.Cmds {
		if err := w.command(cmd, depth); err != nil {
			return err
		}
	}
	return nil
}

func (w *staticWalker) command(cmd *parse.CommandNode, depth int) error {
	args := cmd.Args
	if fn, ok := args[0].(*parse.IdentifierNode); ok {
		var name string
		if len(args) > 1 {
			if s, ok := args[1].(*parse.StringNode); ok {
				name = s.Text
			}
		}
		switch fn.Ident {
		case "style":
			if name != "" {
				w.b.WriteString("[" + name + "]" + dynamic)
				if err := w.args(args[2:], depth); err != nil {
					return err
				}
				w.b.WriteString(dynamic + "[/" + name + "]")
				return nil
			}
		case "include":
			if name != "" {
				return w.include(name, depth)
			}
		case "icon", "ctx":
			return nil
		}
		return w.args(args[1:], depth)
	}
	return w.args(args, depth)
}

// args emits string literals and walks nested pipelines.
func (w *staticWalker) args(args []parse.Node, depth int) error {
	for _, arg := range args {
		switch a := arg.(type) {
		case *parse.StringNode:
			w.b.WriteString(dynamic + a.Text + dynamic)
		case *parse.PipeNode:
			w.b.WriteString(dynamic)
			if err := w.pipe(a, depth); err != nil {
				return err
			}
			w.b.WriteString(dynamic)
		}
	}
	return nil
}

func (w *staticWalker) include(name string, depth int) error {
	if w.includer == nil || w.visiting[name] || depth >= MaxIncludeDepth {
		return nil
	}
	src, err := w.includer.Lookup(name)
	if err != nil {
		return err
	}
	w.visiting[name] = true
	defer delete(w.visiting, name)

	w.b.WriteString(dynamic)
	return w.source(src, depth+1)
}
