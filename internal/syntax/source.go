package syntax

import (
	"context"
	"fmt"
	"os"

	"aicheck/internal/paths"
)

// SourceFile is one parsed file. Exactly one of Tree and Err is set once
// ParseFile returns.
type SourceFile struct {
	// Path is repo-relative with forward slashes.
	Path string
	Text []byte
	Tree *Module
	Err  error
}

// ParseError locates the first syntax error in a file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile reads and parses root/rel. I/O and syntax failures are recorded
// on the returned SourceFile; only context cancellation is returned as err.
func ParseFile(ctx context.Context, root, rel string) (*SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sf := &SourceFile{Path: paths.NormalizePath(rel)}
	text, err := os.ReadFile(paths.JoinRepoPath(root, sf.Path))
	if err != nil {
		sf.Err = &ParseError{Path: sf.Path, Message: err.Error()}
		return sf, nil
	}
	sf.Text = text

	tree, err := Parse(ctx, sf.Path, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		sf.Err = err
		return sf, nil
	}
	sf.Tree = tree
	return sf, nil
}
