package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGoFile(t *testing.T, root string, rel string, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollectViolationsFlagsLayerLeaks(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contexts")
	writeGoFile(t, root, "site-operations/task-service/domain/services/ok.go", `package services

import (
	"strings"

	"zodchiy/contexts/site-operations/task-service/domain/entities"
)
`)
	writeGoFile(t, root, "site-operations/task-service/domain/services/bad.go", `package services

import (
	"gorm.io/gorm"
	"zodchiy/contexts/site-operations/task-service/adapters/memory"
)
`)
	writeGoFile(t, root, "site-operations/task-service/application/commands/bad.go", `package commands

import "zodchiy/internal/platform/db"
`)
	writeGoFile(t, root, "site-operations/task-service/application/commands/cross.go", `package commands

import "zodchiy/contexts/billing/invoice-service/domain/entities"
`)
	writeGoFile(t, root, "site-operations/task-service/adapters/postgres/ok.go", `package postgres

import "gorm.io/gorm"
`)

	violations := collectViolations(root)
	got := map[string]bool{}
	for _, v := range violations {
		got[v.File+"|"+v.Rule] = true
	}

	want := []string{
		"contexts/site-operations/task-service/domain/services/bad.go|domain must not import third-party packages",
		"contexts/site-operations/task-service/domain/services/bad.go|domain must not import adapters",
		"contexts/site-operations/task-service/application/commands/bad.go|application must not import runtime infrastructure",
		"contexts/site-operations/task-service/application/commands/cross.go|cross-service imports are forbidden",
		"contexts/site-operations/task-service/application/commands/cross.go|application import is outside explicit allowlist",
	}
	for _, key := range want {
		if !got[key] {
			t.Fatalf("missing violation %q in %+v", key, violations)
		}
	}
	if len(violations) != len(want) {
		t.Fatalf("expected %d violations, got %+v", len(want), violations)
	}
}

func TestIsStdlib(t *testing.T) {
	cases := map[string]bool{
		"context":                      true,
		"net/http":                     true,
		"gorm.io/gorm":                 false,
		"github.com/google/uuid":       false,
		"zodchiy/internal/platform/db": false,
	}
	for in, want := range cases {
		if got := isStdlib(in); got != want {
			t.Fatalf("isStdlib(%q) = %v, want %v", in, got, want)
		}
	}
}
