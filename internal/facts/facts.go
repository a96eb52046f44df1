// Package facts extracts declarations, mount calls and imports from parsed
// Python files by name-based pattern matching.
//
// Matching is on names only. Aliased constructors, re-exports and factory
// indirection are not followed.
package facts

import (
	"sort"
	"strings"

	"aicheck/internal/syntax"
)

// Patterns names the constructor and the mount method to recognize.
type Patterns struct {
	Constructor string
	MountMethod string
}

// Declaration is `name = Constructor(...)`.
type Declaration struct {
	Name string      `json:"name"`
	File string      `json:"file"`
	Span syntax.Span `json:"span"`
}

// Usage is `receiver.mount(name, ...)`.
type Usage struct {
	Name     string      `json:"name"`
	Receiver string      `json:"receiver,omitempty"`
	File     string      `json:"file"`
	Span     syntax.Span `json:"span"`
}

// ImportFact records the top-level package of an absolute import.
type ImportFact struct {
	Module string      `json:"module"`
	Full   string      `json:"full"`
	File   string      `json:"file"`
	Span   syntax.Span `json:"span"`
}

// Set holds every fact extracted from one or more files.
type Set struct {
	Declarations []Declaration `json:"declarations"`
	Usages       []Usage       `json:"usages"`
	Imports      []ImportFact  `json:"imports"`
}

// Extract walks the tree of f once. A file without a tree yields an empty set.
func Extract(f *syntax.SourceFile, p Patterns) Set {
	var s Set
	if f == nil || f.Tree == nil {
		return s
	}

	syntax.Walk(f.Tree, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Assignment:
			if isConstructorCall(n.Value, p.Constructor) {
				for _, target := range n.Targets {
					name, ok := target.(*syntax.Name)
					if !ok {
						continue
					}
					s.Declarations = append(s.Declarations, Declaration{Name: name.ID, File: f.Path, Span: n.Pos})
				}
			}
		case *syntax.Call:
			if u, ok := mountUsage(n, p.MountMethod); ok {
				u.File = f.Path
				s.Usages = append(s.Usages, u)
			}
		case *syntax.Import:
			for _, a := range n.Names {
				s.addImport(a.Name, f.Path, n.Pos)
			}
		case *syntax.ImportFrom:
			if n.Level == 0 {
				s.addImport(n.Module, f.Path, n.Pos)
			}
		}
		return true
	})
	return s
}

func isConstructorCall(n syntax.Node, constructor string) bool {
	call, ok := n.(*syntax.Call)
	if !ok {
		return false
	}
	switch fn := call.Func.(type) {
	case *syntax.Name:
		return fn.ID == constructor
	case *syntax.Attribute:
		return fn.Attr == constructor
	default:
		return false
	}
}

func mountUsage(call *syntax.Call, method string) (Usage, bool) {
	attr, ok := call.Func.(*syntax.Attribute)
	if !ok || attr.Attr != method || len(call.Args) == 0 {
		return Usage{}, false
	}
	arg, ok := call.Args[0].(*syntax.Name)
	if !ok {
		return Usage{}, false
	}
	return Usage{Name: arg.ID, Receiver: syntax.DottedName(attr.Value), Span: call.Pos}, true
}

func (s *Set) addImport(module, file string, span syntax.Span) {
	if module == "" {
		return
	}
	s.Imports = append(s.Imports, ImportFact{
		Module: TopLevel(module),
		Full:   module,
		File:   file,
		Span:   span,
	})
}

// TopLevel returns the first dotted segment of a module path.
func TopLevel(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}

// Merge concatenates sets and orders every slice by file, then position, so
// the result does not depend on the order the inputs were produced in.
func Merge(sets ...Set) Set {
	var out Set
	for _, s := range sets {
		out.Declarations = append(out.Declarations, s.Declarations...)
		out.Usages = append(out.Usages, s.Usages...)
		out.Imports = append(out.Imports, s.Imports...)
	}
	sort.SliceStable(out.Declarations, func(i, j int) bool {
		a, b := out.Declarations[i], out.Declarations[j]
		return less(a.File, b.File, a.Span, b.Span, a.Name, b.Name)
	})
	sort.SliceStable(out.Usages, func(i, j int) bool {
		a, b := out.Usages[i], out.Usages[j]
		return less(a.File, b.File, a.Span, b.Span, a.Name, b.Name)
	})
	sort.SliceStable(out.Imports, func(i, j int) bool {
		a, b := out.Imports[i], out.Imports[j]
		return less(a.File, b.File, a.Span, b.Span, a.Full, b.Full)
	})
	return out
}

func less(fa, fb string, sa, sb syntax.Span, na, nb string) bool {
	if fa != fb {
		return fa < fb
	}
	if sa.Line != sb.Line {
		return sa.Line < sb.Line
	}
	if sa.Column != sb.Column {
		return sa.Column < sb.Column
	}
	return na < nb
}

// UsagesIn returns the usages whose call site is file.
func (s Set) UsagesIn(file string) []Usage {
	var out []Usage
	for _, u := range s.Usages {
		if u.File == file {
			out = append(out, u)
		}
	}
	return out
}
