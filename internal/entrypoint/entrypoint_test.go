package entrypoint

import (
	"errors"
	"testing"

	"aicheck/internal/testutil"
)

var candidates = []string{"main.py", "app.py", "src/main.py", "app/main.py"}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		scan       []string
		wantPath   string
		wantMethod Method
	}{
		{
			name:       "first candidate wins",
			files:      map[string]string{"main.py": "", "app.py": ""},
			wantPath:   "main.py",
			wantMethod: ByCandidate,
		},
		{
			name:       "nested candidate",
			files:      map[string]string{"app/main.py": ""},
			wantPath:   "app/main.py",
			wantMethod: ByCandidate,
		},
		{
			name: "marker fallback",
			files: map[string]string{
				"service/a.py":      "x = 1\n",
				"service/server.py": "app = FastAPI(title='x')\n",
			},
			scan:       []string{"service/a.py", "service/server.py"},
			wantPath:   "service/server.py",
			wantMethod: ByMarker,
		},
		{
			name: "marker in scan order",
			files: map[string]string{
				"b/one.py": "FastAPI(\n",
				"a/two.py": "FastAPI(\n",
			},
			scan:       []string{"a/two.py", "b/one.py"},
			wantPath:   "a/two.py",
			wantMethod: ByMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.NewProject(t, tt.files)
			got, err := Resolve(root, candidates, []string{"FastAPI("}, tt.scan)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.Path != tt.wantPath || got.Method != tt.wantMethod {
				t.Errorf("Resolve() = %+v, want %s via %s", got, tt.wantPath, tt.wantMethod)
			}
		})
	}
}

func TestResolveDirectoryIsNotCandidate(t *testing.T) {
	root := testutil.NewProject(t, map[string]string{"main.py/inner.py": "", "app.py": ""})
	got, err := Resolve(root, candidates, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "app.py" {
		t.Errorf("Path = %q, want app.py", got.Path)
	}
}

func TestResolveNotFound(t *testing.T) {
	root := testutil.NewProject(t, map[string]string{"lib/util.py": "def f(): pass\n"})
	_, err := Resolve(root, candidates, []string{"FastAPI("}, []string{"lib/util.py"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
