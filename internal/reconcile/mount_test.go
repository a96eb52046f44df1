package reconcile

import (
	"reflect"
	"testing"

	"aicheck/internal/facts"
	"aicheck/internal/syntax"
)

func decl(name, file string, line int) facts.Declaration {
	return facts.Declaration{Name: name, File: file, Span: syntax.Span{Line: line, Column: 1}}
}

func mount(name, receiver, file string) facts.Usage {
	return facts.Usage{Name: name, Receiver: receiver, File: file}
}

func TestUnmountedRoundTrip(t *testing.T) {
	decls := []facts.Declaration{
		decl("users_router", "app/routers/users.py", 3),
		decl("orders_router", "app/routers/orders.py", 4),
		decl("items_router", "app/routers/items.py", 2),
	}
	usages := []facts.Usage{
		mount("users_router", "app", "main.py"),
		mount("orders_router", "app", "main.py"),
		mount("items_router", "app", "main.py"),
	}
	if got := Unmounted(decls, Mounted(usages, "main.py", false), "main.py", "app.include_router"); len(got) != 0 {
		t.Errorf("expected no findings, got %+v", got)
	}
}

func TestUnmountedExample(t *testing.T) {
	decls := []facts.Declaration{
		decl("users_router", "app/routers/users.py", 3),
		decl("orders_router", "app/routers/orders.py", 5),
	}
	usages := []facts.Usage{mount("users_router", "app", "main.py")}

	got := Unmounted(decls, Mounted(usages, "main.py", false), "main.py", "app.include_router")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %+v", got)
	}
	f := got[0]
	if f.Subject != "orders_router" || !f.IsError() {
		t.Errorf("finding = %+v", f)
	}
	if len(f.Evidence) != 1 || f.Evidence[0].Path != "app/routers/orders.py" || f.Evidence[0].Line != 5 {
		t.Errorf("evidence = %+v", f.Evidence)
	}
	if f.Hint != "add app.include_router(orders_router) to main.py" {
		t.Errorf("hint = %q", f.Hint)
	}
}

func TestMountCall(t *testing.T) {
	tests := []struct {
		name   string
		usages []facts.Usage
		method string
		want   string
	}{
		{"default receiver", nil, "include_router", "app.include_router"},
		{"entry receiver", []facts.Usage{mount("a", "api", "main.py")}, "include_router", "api.include_router"},
		{"dotted receiver", []facts.Usage{mount("a", "", "main.py"), mount("b", "server.app", "main.py")}, "mount", "server.app.mount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MountCall(tt.usages, tt.method); got != tt.want {
				t.Errorf("MountCall() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnmountedHintUsesMountCall(t *testing.T) {
	got := Unmounted([]facts.Declaration{decl("users", "r.py", 1)}, nil, "server.py", "api.add_router")
	if len(got) != 1 || got[0].Hint != "add api.add_router(users) to server.py" {
		t.Errorf("findings = %+v", got)
	}
}

func TestUnmountedListsEveryDeclaringFile(t *testing.T) {
	decls := []facts.Declaration{
		decl("router", "b/routes.py", 1),
		decl("router", "a/routes.py", 9),
		decl("other", "c/routes.py", 1),
	}
	usages := []facts.Usage{mount("other", "app", "main.py")}

	got := Unmounted(decls, Mounted(usages, "main.py", false), "main.py", "app.include_router")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	var paths []string
	for _, ev := range got[0].Evidence {
		paths = append(paths, ev.Path)
	}
	if !reflect.DeepEqual(paths, []string{"a/routes.py", "b/routes.py"}) {
		t.Errorf("evidence paths = %v", paths)
	}
}

func TestUsagesOutsideEntryDoNotCount(t *testing.T) {
	decls := []facts.Declaration{decl("users", "routers/users.py", 1)}
	usages := []facts.Usage{mount("users", "app", "other.py")}

	if got := Unmounted(decls, Mounted(usages, "main.py", false), "main.py", "app.include_router"); len(got) != 1 {
		t.Errorf("usage outside entry file should not mount, got %+v", got)
	}
}

func TestMountedNested(t *testing.T) {
	usages := []facts.Usage{
		mount("api", "app", "main.py"),
		mount("v1", "api", "routers/api.py"),
		mount("users", "v1", "routers/v1.py"),
		mount("orphan", "detached", "routers/x.py"),
	}

	flat := Mounted(usages, "main.py", false)
	if !reflect.DeepEqual(flat, map[string]bool{"api": true}) {
		t.Errorf("flat = %v", flat)
	}

	nested := Mounted(usages, "main.py", true)
	want := map[string]bool{"api": true, "v1": true, "users": true}
	if !reflect.DeepEqual(nested, want) {
		t.Errorf("nested = %v, want %v", nested, want)
	}
}

func TestUnmountedOrderIsStable(t *testing.T) {
	decls := []facts.Declaration{decl("zeta", "z.py", 1), decl("alpha", "a.py", 1), decl("mid", "m.py", 1)}
	got := Unmounted(decls, map[string]bool{}, "main.py", "app.include_router")
	var names []string
	for _, f := range got {
		names = append(names, f.Subject)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("order = %v", names)
	}
}

func TestDeclaredNames(t *testing.T) {
	got := DeclaredNames([]facts.Declaration{decl("b", "x", 1), decl("a", "y", 1), decl("b", "z", 1)})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("DeclaredNames = %v", got)
	}
}
