package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/binsentry/internal/config"
)

func TestPluginsCommandListsBuiltins(t *testing.T) {
	swapEngine(t, fakeEngine{})

	loader := &config.Loader{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
	cmd := newPluginsCmd(loader)

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--rules-dir", t.TempDir()})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("plugins command failed: %v", err)
	}

	out := buf.String()
	for _, id := range []string{"clamav", "compilers", "peid", "strings"} {
		if !strings.Contains(out, id) {
			t.Fatalf("missing detector %s in listing: %s", id, out)
		}
	}
	if !strings.Contains(out, "api v1") {
		t.Fatalf("listing should show the API version: %s", out)
	}
	if !strings.Contains(out, "clamav.yara") {
		t.Fatalf("listing should show the bound rule file: %s", out)
	}
}
