//go:build cgo

package facts

import (
	"context"
	"testing"

	"aicheck/internal/syntax"
)

func TestExtractFromSource(t *testing.T) {
	src := `from fastapi import APIRouter, FastAPI
import fastapi
from .deps import get_db

app = FastAPI()
users_router = APIRouter(prefix="/users")
orders_router: APIRouter = fastapi.APIRouter()

app.include_router(users_router, tags=["users"])
`
	tree, err := syntax.Parse(context.Background(), "main.py", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := Extract(&syntax.SourceFile{Path: "main.py", Tree: tree}, fastapi)

	if len(s.Declarations) != 2 {
		t.Fatalf("declarations = %+v", s.Declarations)
	}
	if s.Declarations[0].Name != "users_router" || s.Declarations[1].Name != "orders_router" {
		t.Errorf("declarations = %+v", s.Declarations)
	}
	if s.Declarations[1].Span.Line != 7 {
		t.Errorf("orders_router line = %d, want 7", s.Declarations[1].Span.Line)
	}

	if len(s.Usages) != 1 || s.Usages[0].Name != "users_router" || s.Usages[0].Receiver != "app" {
		t.Errorf("usages = %+v", s.Usages)
	}

	if len(s.Imports) != 2 {
		t.Fatalf("imports = %+v", s.Imports)
	}
	for _, imp := range s.Imports {
		if imp.Module != "fastapi" {
			t.Errorf("unexpected import %+v", imp)
		}
	}
}

func TestExtractSeesThroughParentheses(t *testing.T) {
	src := `r = (APIRouter())
items_router = ((fastapi.APIRouter(prefix="/i")))
app.include_router((r))
app.include_router(
    (items_router),
    prefix="/i",
)
(app).include_router(r)
`
	tree, err := syntax.Parse(context.Background(), "main.py", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := Extract(&syntax.SourceFile{Path: "main.py", Tree: tree}, fastapi)

	if len(s.Declarations) != 2 || s.Declarations[0].Name != "r" || s.Declarations[1].Name != "items_router" {
		t.Errorf("declarations = %+v", s.Declarations)
	}

	want := []string{"r", "items_router", "r"}
	if len(s.Usages) != len(want) {
		t.Fatalf("usages = %+v", s.Usages)
	}
	for i, u := range s.Usages {
		if u.Name != want[i] || u.Receiver != "app" {
			t.Errorf("usage %d = %+v, want %s on app", i, u, want[i])
		}
	}
}

func TestExtractTupleTargetIsNotADeclaration(t *testing.T) {
	tree, err := syntax.Parse(context.Background(), "a.py", []byte("(a, b) = (APIRouter(), APIRouter())\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s := Extract(&syntax.SourceFile{Path: "a.py", Tree: tree}, fastapi); len(s.Declarations) != 0 {
		t.Errorf("declarations = %+v", s.Declarations)
	}
}
