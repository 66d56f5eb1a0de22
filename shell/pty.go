// Package shell spawns profile commands on a pseudo-terminal.
package shell

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"
	"github.com/javanhut/RavenPanel/config"
)

// PtySession manages a pseudo-terminal connection to a shell
type PtySession struct {
	cmd    *exec.Cmd
	pty    *os.File
	mu     sync.Mutex
	exited atomic.Bool
	done   chan struct{}
}

// NewPtySession starts the profile's command on a new pty. An empty command
// runs the user's login shell.
func NewPtySession(profile config.Profile, cols, rows uint16) (*PtySession, error) {
	command := profile.Command
	if command == "" {
		command = findShell()
	}

	cmd := exec.Command(command, profile.Args...)
	// New session so the child is independent from the parent terminal
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	cmd.Env = buildEnv(command, profile.Env)
	cmd.Dir = workdir(profile.Workdir)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: cols,
		Rows: rows,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	session := &PtySession{
		cmd:  cmd,
		pty:  ptmx,
		done: make(chan struct{}),
	}

	// Monitor for process exit
	go func() {
		_ = cmd.Wait()
		session.exited.Store(true)
		close(session.done)
	}()

	return session, nil
}

// buildEnv starts from the parent environment, forces the terminal type and
// applies profile overrides in a stable order.
func buildEnv(shell string, extra map[string]string) []string {
	env := make([]string, 0, len(os.Environ())+len(extra)+4)
	for _, kv := range os.Environ() {
		switch {
		case strings.HasPrefix(kv, "TERM="),
			strings.HasPrefix(kv, "COLORTERM="),
			strings.HasPrefix(kv, "SHELL="):
			continue
		}
		env = append(env, kv)
	}
	env = append(env,
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
		"RAVEN_PANEL=1",
		"SHELL="+shell,
	)
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

func workdir(dir string) string {
	if dir != "" {
		if strings.HasPrefix(dir, "~") {
			if home, err := os.UserHomeDir(); err == nil {
				dir = home + dir[1:]
			}
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return ""
}

// findShell finds the default shell from system user database
func findShell() string {
	currentUser, err := user.Current()
	if err == nil {
		shell := getUserShell(currentUser.Username)
		if shell != "" {
			if _, err := os.Stat(shell); err == nil {
				return shell
			}
		}
	}
	if shells := config.GetAvailableShells(); len(shells) > 0 {
		return shells[0]
	}
	return "/bin/sh"
}

// getUserShell reads the user's shell from /etc/passwd
func getUserShell(username string) string {
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	return parsePasswdShell(string(data), username)
}

func parsePasswdShell(passwd, username string) string {
	for _, line := range strings.Split(passwd, "\n") {
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && fields[0] == username {
			return fields[6]
		}
	}
	return ""
}

// Read reads from the PTY
func (p *PtySession) Read(buf []byte) (int, error) {
	return p.pty.Read(buf)
}

// Write writes to the PTY
func (p *PtySession) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pty.Write(data)
}

// Resize resizes the PTY
func (p *PtySession) Resize(cols, rows uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pty.Setsize(p.pty, &pty.Winsize{
		Cols: cols,
		Rows: rows,
	})
}

// HasExited returns true if the shell process has exited
func (p *PtySession) HasExited() bool {
	return p.exited.Load()
}

// Done is closed when the process exits.
func (p *PtySession) Done() <-chan struct{} { return p.done }

// Close kills the process and closes the PTY.
func (p *PtySession) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd.Process != nil && !p.exited.Load() {
		_ = p.cmd.Process.Kill()
	}
	return p.pty.Close()
}
