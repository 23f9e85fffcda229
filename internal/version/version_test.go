package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	prev := Version
	Version = "9.9.9"
	defer func() { Version = prev }()

	if got := Info(); !strings.HasPrefix(got, "wordlens 9.9.9\n") {
		t.Fatalf("Info() = %q", got)
	}
}
