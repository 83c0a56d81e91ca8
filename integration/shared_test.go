//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// riskgateBinary points at the binary every integration test invokes. It is
// built once by TestMain.
var riskgateBinary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "riskgate-integration-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, "creating scratch dir:", err)
		os.Exit(1)
	}
	riskgateBinary = filepath.Join(dir, "riskgate")

	build := exec.Command("go", "build", "-o", riskgateBinary, ".")
	build.Dir = ".." // project root
	if out, buildErr := build.CombinedOutput(); buildErr != nil {
		fmt.Fprintf(os.Stderr, "building riskgate: %v\n%s", buildErr, out)
		_ = os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
