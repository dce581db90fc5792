package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestStandaloneBinaryVersionAndHelpWorkOutsideRepo(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("standalone binary copy/exec test is unix-focused")
	}
	goModPathBytes, err := exec.Command("go", "env", "GOMOD").Output()
	if err != nil {
		t.Fatalf("go env GOMOD: %v", err)
	}
	goModPath := strings.TrimSpace(string(goModPathBytes))
	if goModPath == "" {
		t.Fatalf("go env GOMOD returned empty")
	}
	repoRoot := filepath.Dir(goModPath)

	buildDir := t.TempDir()
	binaryPath := filepath.Join(buildDir, "nextgen")

	build := exec.Command("go", "build", "-o", binaryPath, "./cmd/nextgen")
	build.Dir = repoRoot
	build.Env = os.Environ()
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build: %v\n%s", err, string(out))
	}

	outside := t.TempDir()
	copiedBinary := filepath.Join(outside, "nextgen")

	// Use a direct file copy to avoid relying on platform-specific tools.
	data, err := os.ReadFile(binaryPath)
	if err != nil {
		t.Fatalf("read built binary: %v", err)
	}
	if err := os.WriteFile(copiedBinary, data, 0o755); err != nil {
		t.Fatalf("write copied binary: %v", err)
	}

	version := exec.Command(copiedBinary, "version")
	version.Dir = outside
	if out, err := version.CombinedOutput(); err != nil {
		t.Fatalf("version failed: %v\n%s", err, string(out))
	}

	help := exec.Command(copiedBinary, "--help")
	help.Dir = outside
	out, err := help.CombinedOutput()
	if err != nil {
		t.Fatalf("--help failed: %v\n%s", err, string(out))
	}
	for _, sub := range []string{"serve", "generate", "chat", "prefs", "history"} {
		if !strings.Contains(string(out), sub) {
			t.Fatalf("--help does not list %q:\n%s", sub, string(out))
		}
	}

	// A blank theme is rejected before any network call.
	blank := exec.Command(copiedBinary, "generate", "   ")
	blank.Dir = outside
	blank.Env = append(os.Environ(), "NEXTGEN_CLIENT_BASE_URL=http://127.0.0.1:1", "XDG_CONFIG_HOME="+outside)
	if out, err := blank.CombinedOutput(); err == nil {
		t.Fatalf("expected blank theme to fail:\n%s", string(out))
	} else if !strings.Contains(string(out), "theme is required") {
		t.Fatalf("unexpected output for blank theme:\n%s", string(out))
	}
}
