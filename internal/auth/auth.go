// Package auth stores provider API keys in the OS keychain.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const keychainService = "wordlens"

// Services with a credential.
const (
	OpenAI   = "openai"
	Gemini   = "gemini"
	RapidAPI = "rapidapi"
)

// Key sources reported by GetKey.
const (
	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

type credential struct {
	account string
	envVar  string
}

var credentials = map[string]credential{
	OpenAI:   {account: "openai-api-key", envVar: "OPENAI_API_KEY"},
	Gemini:   {account: "gemini-api-key", envVar: "GEMINI_API_KEY"},
	RapidAPI: {account: "rapidapi-key", envVar: "RAPIDAPI_KEY"},
}

// ErrUnknownService is returned for a service without a credential slot.
var ErrUnknownService = errors.New("unknown service")

// Services lists the supported service names.
func Services() []string {
	return []string{OpenAI, Gemini, RapidAPI}
}

func lookup(service string) (credential, error) {
	c, ok := credentials[strings.ToLower(strings.TrimSpace(service))]
	if !ok {
		return credential{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownService, service, strings.Join(Services(), ", "))
	}
	return c, nil
}

// EnvVar returns the environment variable consulted for service.
func EnvVar(service string) string {
	c, err := lookup(service)
	if err != nil {
		return ""
	}
	return c.envVar
}

// GetKey retrieves the API key for service and where it came from.
// If allowEnv is false, environment variables are ignored.
func GetKey(service string, allowEnv bool) (string, string) {
	c, err := lookup(service)
	if err != nil {
		return "", ""
	}

	// 1. Try Keychain
	key, err := keyring.Get(keychainService, c.account)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), SourceKeychain
	}

	if allowEnv {
		// 2. Try Env Var (optional)
		if key = strings.TrimSpace(os.Getenv(c.envVar)); key != "" {
			return key, SourceEnv
		}
	}

	return "", ""
}

// KeyFunc adapts GetKey to providers that only need the key.
func KeyFunc(allowEnv bool) func(service string) string {
	return func(service string) string {
		key, _ := GetKey(service, allowEnv)
		return key
	}
}

// SaveKey saves the key for service to the OS Keychain.
func SaveKey(service, key string) error {
	c, err := lookup(service)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty API key")
	}
	return keyring.Set(keychainService, c.account, key)
}

// DeleteKey removes the key for service from the OS Keychain.
func DeleteKey(service string) error {
	c, err := lookup(service)
	if err != nil {
		return err
	}
	return keyring.Delete(keychainService, c.account)
}

// GetStatus reports whether the keychain holds a key for service.
func GetStatus(service string) bool {
	c, err := lookup(service)
	if err != nil {
		return false
	}
	key, err := keyring.Get(keychainService, c.account)
	return err == nil && key != ""
}

// PromptForAPIKey securely prompts the user for their API key.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}
