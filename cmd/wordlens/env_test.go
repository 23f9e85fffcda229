package main

import (
	"errors"
	"strings"
	"testing"
)

type keyStubs struct {
	envCalls int
	saved    map[string]string
	deleted  []string
}

func withEnvStubs(t *testing.T, status bool, envKey string) *keyStubs {
	t.Helper()
	stubs := &keyStubs{saved: map[string]string{}}

	prevStatus := getStatus
	prevEnv := getEnvKey
	prevSave := saveKey
	prevDelete := deleteKey
	prevPrompt := promptForKey
	prevTerminal := isTerminal

	getStatus = func(_ string) bool {
		return status
	}
	getEnvKey = func(_ string) (string, bool) {
		stubs.envCalls++
		if envKey == "" {
			return "", false
		}
		return envKey, true
	}
	saveKey = func(service, key string) error {
		stubs.saved[service] = key
		return nil
	}
	deleteKey = func(service string) error {
		stubs.deleted = append(stubs.deleted, service)
		return nil
	}
	promptForKey = func(_ string) (string, error) {
		return "  sk-prompted  ", nil
	}
	isTerminal = func(_ int) bool { return true }

	t.Cleanup(func() {
		getStatus = prevStatus
		getEnvKey = prevEnv
		saveKey = prevSave
		deleteKey = prevDelete
		promptForKey = prevPrompt
		isTerminal = prevTerminal
	})
	return stubs
}

func TestHandleEnv_StatusKeychain(t *testing.T) {
	stubs := withEnvStubs(t, true, "sk-env-secret")

	out, err := executeCommand(t, "env", "status", "--service", "gemini")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Found (source=Keychain)") {
		t.Fatalf("expected keychain source, got: %s", out)
	}
	if strings.Contains(out, "sk-env-secret") {
		t.Fatalf("output leaked env key")
	}
	if stubs.envCalls != 0 {
		t.Fatalf("env should not be consulted when the keychain has a key")
	}
}

func TestHandleEnv_StatusEnv(t *testing.T) {
	withEnvStubs(t, false, "sk-env-secret")

	out, err := executeCommand(t, "env", "status", "--service", "rapidapi")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Found (source=Environment Variable RAPIDAPI_KEY") {
		t.Fatalf("expected env source, got: %s", out)
	}
	if strings.Contains(out, "sk-env-secret") {
		t.Fatalf("output leaked env key")
	}
}

func TestHandleEnv_DefaultActionIsStatus(t *testing.T) {
	withEnvStubs(t, false, "")

	out, err := executeCommand(t, "env")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "openai API Key: Not Found") {
		t.Fatalf("expected not found for the default service, got: %s", out)
	}
}

func TestHandleEnv_InvalidService(t *testing.T) {
	withEnvStubs(t, false, "")

	_, err := executeCommand(t, "env", "status", "--service", "deepl")
	if err == nil || !strings.Contains(err.Error(), "invalid service") {
		t.Fatalf("expected invalid service error, got %v", err)
	}
}

func TestHandleEnvSetup_SavesTrimmedKey(t *testing.T) {
	stubs := withEnvStubs(t, false, "")

	out, err := executeCommand(t, "env", "setup", "--service", "openai")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if got := stubs.saved["openai"]; got != "sk-prompted" {
		t.Fatalf("saved key = %q, want %q", got, "sk-prompted")
	}
	if strings.Contains(out, "sk-prompted") {
		t.Fatalf("output leaked key: %s", out)
	}
}

func TestHandleEnvSetup_RequiresTerminal(t *testing.T) {
	stubs := withEnvStubs(t, false, "")
	isTerminal = func(_ int) bool { return false }

	if _, err := executeCommand(t, "env", "setup"); err == nil {
		t.Fatalf("expected setup without a terminal to fail")
	}
	if len(stubs.saved) != 0 {
		t.Fatalf("nothing should be saved, got %v", stubs.saved)
	}
}

func TestHandleEnvSetup_EmptyKeyRejected(t *testing.T) {
	stubs := withEnvStubs(t, false, "")
	promptForKey = func(_ string) (string, error) { return "   ", nil }

	if _, err := executeCommand(t, "env", "setup"); err == nil {
		t.Fatalf("expected empty key to be rejected")
	}
	if len(stubs.saved) != 0 {
		t.Fatalf("nothing should be saved, got %v", stubs.saved)
	}
}

func TestHandleEnvSetup_PromptError(t *testing.T) {
	withEnvStubs(t, false, "")
	promptForKey = func(_ string) (string, error) { return "", errors.New("eof") }

	_, err := executeCommand(t, "env", "setup")
	if err == nil || !strings.Contains(err.Error(), "error reading key") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestHandleEnvSetup_RejectsPositionalAPIKey(t *testing.T) {
	withEnvStubs(t, false, "")

	out, err := executeCommand(t, "env", "setup", "sk-should-not-be-allowed", "--service", "openai")
	if err == nil {
		t.Fatalf("expected setup to reject positional API key argument")
	}
	if !strings.Contains(out, "unknown command") && !strings.Contains(out, "accepts 0 arg(s)") {
		t.Fatalf("expected positional-argument rejection error, got: %s", out)
	}
}

func TestHandleEnvDelete(t *testing.T) {
	stubs := withEnvStubs(t, true, "")

	out, err := executeCommand(t, "env", "delete", "--service", "GEMINI")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if len(stubs.deleted) != 1 || stubs.deleted[0] != "gemini" {
		t.Fatalf("deleted = %v, want [gemini]", stubs.deleted)
	}
	if !strings.Contains(out, "Deleted gemini API key") {
		t.Fatalf("unexpected output: %s", out)
	}
}
