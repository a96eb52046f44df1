// Package syntax turns Python source into an immutable tree of typed nodes.
//
// Each node kind carries exactly its own fields. Consumers match kinds with a
// type switch; there is no dynamic field probing. Constructs the extractors
// do not care about are kept as Other so that walks still reach nested code.
package syntax

// Span is a 1-based source range. Columns count bytes.
type Span struct {
	Line      int `json:"line"`
	Column    int `json:"column"`
	EndLine   int `json:"endLine"`
	EndColumn int `json:"endColumn"`
}

// Node is one element of a parsed tree. The set of implementations is closed.
type Node interface {
	Span() Span
	node()
}

// Module is the root of every tree.
type Module struct {
	Pos  Span
	Body []Node
}

// Assignment covers plain, chained and annotated assignment.
// `a = b = f()` has Targets [a, b]. A bare annotation has a nil Value.
type Assignment struct {
	Pos        Span
	Targets    []Node
	Annotation Node
	Value      Node
}

// Call is a call expression. Args holds positional arguments in order,
// including starred ones. Keywords holds `k=v` and `**kw` arguments.
type Call struct {
	Pos      Span
	Func     Node
	Args     []Node
	Keywords []Node
}

// Attribute is `Value.Attr`.
type Attribute struct {
	Pos   Span
	Value Node
	Attr  string
}

// Name is a bare identifier.
type Name struct {
	Pos Span
	ID  string
}

// Alias is one imported name with its optional `as` binding.
type Alias struct {
	Name   string
	AsName string
}

// Import is `import a.b, c as d`.
type Import struct {
	Pos   Span
	Names []Alias
}

// ImportFrom is `from m import x`. Level counts leading dots; Module is empty
// for `from . import x`.
type ImportFrom struct {
	Pos    Span
	Module string
	Level  int
	Names  []Alias
}

// Other is any construct without a dedicated kind.
type Other struct {
	Pos      Span
	Kind     string
	Children []Node
}

func (n *Module) Span() Span     { return n.Pos }
func (n *Assignment) Span() Span { return n.Pos }
func (n *Call) Span() Span       { return n.Pos }
func (n *Attribute) Span() Span  { return n.Pos }
func (n *Name) Span() Span       { return n.Pos }
func (n *Import) Span() Span     { return n.Pos }
func (n *ImportFrom) Span() Span { return n.Pos }
func (n *Other) Span() Span      { return n.Pos }

func (*Module) node()     {}
func (*Assignment) node() {}
func (*Call) node()       {}
func (*Attribute) node()  {}
func (*Name) node()       {}
func (*Import) node()     {}
func (*ImportFrom) node() {}
func (*Other) node()      {}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Module:
		return n.Body
	case *Assignment:
		out := make([]Node, 0, len(n.Targets)+2)
		out = append(out, n.Targets...)
		if n.Annotation != nil {
			out = append(out, n.Annotation)
		}
		if n.Value != nil {
			out = append(out, n.Value)
		}
		return out
	case *Call:
		out := make([]Node, 0, len(n.Args)+len(n.Keywords)+1)
		out = append(out, n.Func)
		out = append(out, n.Args...)
		return append(out, n.Keywords...)
	case *Attribute:
		return []Node{n.Value}
	case *Other:
		return n.Children
	default:
		return nil
	}
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// DottedName renders a Name or an Attribute chain of Names as `a.b.c`.
// It returns "" for anything else.
func DottedName(n Node) string {
	switch n := n.(type) {
	case *Name:
		return n.ID
	case *Attribute:
		base := DottedName(n.Value)
		if base == "" {
			return ""
		}
		return base + "." + n.Attr
	default:
		return ""
	}
}
