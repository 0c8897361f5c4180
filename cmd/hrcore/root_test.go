package main

import (
	"bytes"
	"strings"
	"testing"

	"hrcore/internal/pkg/jwt"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("APP_NAME", "hrcore")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "test-secret")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--tenant", "acme", "--actor", "6f1c2d6e-9a53-4c43-9d0e-1d3a8a0b7c11"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	svc := jwt.NewHMACService("test-secret", 0, "hrcore")
	claims, err := svc.ValidateToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TenantID != "acme" || claims.ActorID.String() != "6f1c2d6e-9a53-4c43-9d0e-1d3a8a0b7c11" || claims.Role != "hr" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenCommand_RequiresTenant(t *testing.T) {
	t.Setenv("APP_NAME", "hrcore")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "test-secret")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error without --tenant")
	}
}
