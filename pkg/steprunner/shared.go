package steprunner

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/upshift-dev/upshift/pkg/types"
)

// maxCapture caps how much of each stdio stream is retained per step.
const maxCapture = 1 << 20 // 1 MiB

// logBuffer is a shared helper to stream reader content to a structured logger
func logBuffer(r io.Reader, source string, logger types.Logger, logKey string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		logger.Info().
			Str("source", source).
			Str(logKey, scanner.Text()).
			Msg("Command output")
	}
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}

// applyStepEnv merges step-level overrides onto the current process
// environment in deterministic key order.
func applyStepEnv(cmd *exec.Cmd, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	env := os.Environ()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	cmd.Env = env
}

// resolveStepDir resolves a step's working directory against the run's
// working directory. Empty means inherit.
func resolveStepDir(workDir, stepDir string) string {
	if stepDir == "" {
		return workDir
	}
	if filepath.IsAbs(stepDir) {
		return filepath.Clean(stepDir)
	}
	return filepath.Join(workDir, stepDir)
}
