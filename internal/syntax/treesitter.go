//go:build cgo

package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// IsAvailable reports whether the tree-sitter parser is compiled in.
func IsAvailable() bool {
	return true
}

// Parse parses Python 3 source. A tree containing ERROR or MISSING nodes, or
// a Python 2 print or exec statement, is rejected with a *ParseError pointing
// at the first one. Parse is safe for
// concurrent use; every call owns its parser.
func Parse(ctx context.Context, path string, src []byte) (*Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		pe := &ParseError{Path: path, Message: "invalid syntax"}
		if bad := firstError(root); bad != nil {
			pt := bad.StartPoint()
			pe.Line = int(pt.Row) + 1
			pe.Column = int(pt.Column) + 1
			if bad.IsMissing() {
				pe.Message = fmt.Sprintf("missing %q", bad.Type())
			}
		}
		return nil, pe
	}
	if n := firstOfType(root, python2Statements); n != nil {
		pt := n.StartPoint()
		return nil, &ParseError{
			Path:    path,
			Line:    int(pt.Row) + 1,
			Column:  int(pt.Column) + 1,
			Message: python2Statements[n.Type()],
		}
	}

	l := &lowerer{src: src}
	return &Module{Pos: spanOf(root), Body: l.children(root)}, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

// The grammar still accepts these Python 2 forms.
var python2Statements = map[string]string{
	"print_statement": "Python 2 print statement, use print()",
	"exec_statement":  "Python 2 exec statement, use exec()",
}

func firstOfType(n *sitter.Node, types map[string]string) *sitter.Node {
	if _, ok := types[n.Type()]; ok {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := firstOfType(n.NamedChild(i), types); found != nil {
			return found
		}
	}
	return nil
}

func spanOf(n *sitter.Node) Span {
	start, end := n.StartPoint(), n.EndPoint()
	return Span{
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}

// lowerer converts the concrete syntax tree into Node values.
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Content(l.src)
}

func (l *lowerer) children(n *sitter.Node) []Node {
	count := int(n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, l.lower(c))
	}
	return out
}

func (l *lowerer) lower(n *sitter.Node) Node {
	switch n.Type() {
	case "expression_statement":
		kids := l.children(n)
		if len(kids) == 1 {
			return kids[0]
		}
		return &Other{Pos: spanOf(n), Kind: n.Type(), Children: kids}
	case "parenthesized_expression":
		// parentheses are not a node in Python's own AST
		if kids := l.children(n); len(kids) == 1 {
			return kids[0]
		}
	case "assignment":
		return l.assignment(n)
	case "call":
		return l.call(n)
	case "attribute":
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			break
		}
		return &Attribute{Pos: spanOf(n), Value: l.lower(obj), Attr: l.text(attr)}
	case "identifier":
		return &Name{Pos: spanOf(n), ID: l.text(n)}
	case "import_statement":
		return &Import{Pos: spanOf(n), Names: l.aliases(n, nil)}
	case "import_from_statement":
		return l.importFrom(n)
	case "future_import_statement":
		return &ImportFrom{Pos: spanOf(n), Module: "__future__", Names: l.aliases(n, nil)}
	}
	return &Other{Pos: spanOf(n), Kind: n.Type(), Children: l.children(n)}
}

// assignment flattens `a = b = value` into one node with every target.
func (l *lowerer) assignment(n *sitter.Node) Node {
	a := &Assignment{Pos: spanOf(n)}
	cur := n
	for {
		if left := cur.ChildByFieldName("left"); left != nil {
			a.Targets = append(a.Targets, l.lower(left))
		}
		if a.Annotation == nil {
			if typ := cur.ChildByFieldName("type"); typ != nil {
				a.Annotation = l.lower(typ)
			}
		}
		right := cur.ChildByFieldName("right")
		if right == nil {
			return a
		}
		if right.Type() == "assignment" {
			cur = right
			continue
		}
		a.Value = l.lower(right)
		return a
	}
}

func (l *lowerer) call(n *sitter.Node) Node {
	c := &Call{Pos: spanOf(n)}
	if fn := n.ChildByFieldName("function"); fn != nil {
		c.Func = l.lower(fn)
	} else {
		c.Func = &Other{Pos: spanOf(n), Kind: "missing"}
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return c
	}
	if args.Type() != "argument_list" {
		// f(x for x in y)
		c.Args = append(c.Args, l.lower(args))
		return c
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "comment":
		case "keyword_argument", "dictionary_splat":
			c.Keywords = append(c.Keywords, l.lower(arg))
		default:
			c.Args = append(c.Args, l.lower(arg))
		}
	}
	return c
}

func (l *lowerer) importFrom(n *sitter.Node) Node {
	imp := &ImportFrom{Pos: spanOf(n)}
	mod := n.ChildByFieldName("module_name")
	if mod != nil {
		if mod.Type() == "relative_import" {
			for i := 0; i < int(mod.ChildCount()); i++ {
				c := mod.Child(i)
				switch c.Type() {
				case "import_prefix":
					imp.Level = strings.Count(l.text(c), ".")
				case "dotted_name":
					imp.Module = l.text(c)
				}
			}
		} else {
			imp.Module = l.text(mod)
		}
	}
	imp.Names = l.aliases(n, mod)
	return imp
}

// aliases collects imported names, skipping the module node of a from-import.
func (l *lowerer) aliases(n, skip *sitter.Node) []Alias {
	var out []Alias
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if skip != nil && c.StartByte() == skip.StartByte() && c.EndByte() == skip.EndByte() {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			out = append(out, Alias{Name: l.text(c)})
		case "aliased_import":
			a := Alias{}
			if name := c.ChildByFieldName("name"); name != nil {
				a.Name = l.text(name)
			}
			if as := c.ChildByFieldName("alias"); as != nil {
				a.AsName = l.text(as)
			}
			out = append(out, a)
		case "wildcard_import":
			out = append(out, Alias{Name: "*"})
		}
	}
	return out
}
