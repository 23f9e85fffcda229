package main

import (
	"strings"
	"testing"

	"github.com/oukeidos/wordlens/internal/version"
)

func TestRoot_Version(t *testing.T) {
	out, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.HasPrefix(out, "wordlens "+version.Version+"\n") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("bare invocation failed: %v", err)
	}
	if !strings.Contains(out, "wordlens <word> [flags]") || !strings.Contains(out, "Commands:") {
		t.Fatalf("expected root usage, got:\n%s", out)
	}
}

func TestRoot_FlagsWithoutCommand(t *testing.T) {
	_, err := executeCommand(t, "--debug")
	if err == nil || !strings.Contains(err.Error(), "a command is required") {
		t.Fatalf("expected command-required error, got %v", err)
	}
}

func TestUsage_GroupAndLeafTemplates(t *testing.T) {
	out, err := executeCommand(t, "books", "--help")
	if err != nil {
		t.Fatalf("books --help failed: %v", err)
	}
	if !strings.Contains(out, "wordlens books [command]") || !strings.Contains(out, "rename") {
		t.Fatalf("expected group usage, got:\n%s", out)
	}

	out, err = executeCommand(t, "export", "--help")
	if err != nil {
		t.Fatalf("export --help failed: %v", err)
	}
	if strings.Contains(out, "[command]") || !strings.Contains(out, "--output") || !strings.Contains(out, "--config") {
		t.Fatalf("expected leaf usage with global flags, got:\n%s", out)
	}
}
