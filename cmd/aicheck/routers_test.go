//go:build cgo

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"aicheck/internal/audit"
	"aicheck/internal/guardian"
	"aicheck/internal/testutil"
)

func routerFiles(mountOrders bool) map[string]string {
	main := "from fastapi import FastAPI\nfrom app.routers.users import users_router\n\napp = FastAPI()\napp.include_router(users_router)\n"
	if mountOrders {
		main += "from app.routers.orders import orders_router\napp.include_router(orders_router)\n"
	}
	return map[string]string{
		"main.py":               main,
		"app/routers/users.py":  "from fastapi import APIRouter\n\nusers_router = APIRouter()\n",
		"app/routers/orders.py": "from fastapi import APIRouter\n\norders_router = APIRouter()\n",
	}
}

func TestRunAuditExitCodes(t *testing.T) {
	orig := rootFlag
	t.Cleanup(func() { rootFlag = orig })

	tests := []struct {
		name     string
		mounted  bool
		wantCode int
		wantOut  string
	}{
		{"unmounted router", false, exitFindings, "orders_router"},
		{"all mounted", true, exitOK, "router-mounting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootFlag = testutil.NewProject(t, routerFiles(tt.mounted))
			cmd := &cobra.Command{Use: "routers"}
			var stdout, stderr bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)

			if got := runAudit(cmd, audit.Options{Suite: guardian.SuiteRouters}); got != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstdout: %s\nstderr: %s", got, tt.wantCode, stdout.String(), stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("report missing %q:\n%s", tt.wantOut, stdout.String())
			}
		})
	}
}
