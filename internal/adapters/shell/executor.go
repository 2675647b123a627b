// Package shell runs external commands inside a pseudo-terminal and executes
// test files with them.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs argv in dir and copies the combined output to out.
// The pty merges stdout and stderr.
func (e *Executor) Execute(ctx context.Context, argv []string, dir string, env map[string]string, out io.Writer) error {
	if len(argv) == 0 {
		return nil
	}
	if out == nil {
		out = io.Discard
	}

	name := argv[0]
	cmdEnv := resolveEnvironment(os.Environ(), env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // Command comes from the server configuration
	cmd.Args[0] = name
	cmd.Dir = dir
	cmd.Env = cmdEnv

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start pty"), "command", name)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(out, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "command", name), "exit_code", exitCode)
	}
	return nil
}

// allowListedEnvVars are the system environment variables a command inherits.
// Everything else comes from the configured environment.
var allowListedEnvVars = map[string]struct{}{
	"HOME":    {},
	"TERM":    {},
	"USER":    {},
	"PATH":    {},
	"TMPDIR":  {},
	"GOPATH":  {},
	"GOROOT":  {},
	"GOCACHE": {},
	"GOFLAGS": {},
}

// resolveEnvironment merges the allow-listed system environment with overrides.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches PATH from env instead of the server's own environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
