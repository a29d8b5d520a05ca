package remote

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Warnings ssh prints on some targets when no shell job control is
// available. They are noise, not command output.
var benignWarningPrefixes = []string{
	"Warning: no access to tty",
	"Thus no job control in this shell",
}

// maxLineBytes caps a single output line. bufio's 64KB default is too
// small for wide netstat or log lines; past the cap the read fails
// loudly instead of truncating the stream.
const maxLineBytes = 1024 * 1024

// Runner executes shell commands on a remote Linux host through a spawned
// OpenSSH client process. One process per Run call, no reuse, no retries;
// the call blocks until the session ends or ctx is cancelled.
type Runner struct {
	// Logger receives debug records for each session. Nil disables logging.
	Logger *slog.Logger

	commandFactory func(ctx context.Context, binary string, args ...string) *exec.Cmd
}

func NewRunner() *Runner {
	return &Runner{}
}

// Run opens a single SSH session for req, feeds it each command in order,
// and returns the session's stdout as lines. With CatchErrors set, any
// stderr text surviving the banner trim fails the call with *CommandError.
func (r *Runner) Run(ctx context.Context, req Request) ([]string, error) {
	if strings.TrimSpace(req.Host) == "" {
		return nil, fmt.Errorf("run remote commands: host is required")
	}
	port := req.Port
	if port <= 0 {
		port = DefaultSSHPort
	}

	factory := r.commandFactory
	if factory == nil {
		factory = exec.CommandContext
	}

	var cmd *exec.Cmd
	if req.TTY {
		cmd = factory(ctx, "ssh", req.Host, "-p", strconv.Itoa(port), "-ttt")
	} else {
		cmd = factory(ctx, "sh", "-c", fmt.Sprintf("ssh %s -p %d", req.Host, port))
	}
	r.log(ctx, "opening ssh session",
		slog.String("host", req.Host),
		slog.Int("ssh_port", port),
		slog.Bool("tty", req.TTY),
		slog.Int("commands", len(req.Commands)))

	if req.TTY {
		return r.runTTY(ctx, cmd, req)
	}
	return r.runPiped(ctx, cmd, req)
}

// runTTY drives a pseudo-terminal session. A trailing logout ends the
// session cleanly; both streams are collected in one blocking wait, so
// there is no per-line filtering in this mode.
func (r *Runner) runTTY(ctx context.Context, cmd *exec.Cmd, req Request) ([]string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("run remote commands: stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("run remote commands: start ssh: %w", err)
	}

	for _, command := range req.Commands {
		if _, err := io.WriteString(stdin, command+"\n"); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return nil, fmt.Errorf("run remote commands: write %q: %w", command, err)
		}
	}
	if _, err := io.WriteString(stdin, "logout\n"); err != nil {
		_ = stdin.Close()
		_ = cmd.Wait()
		return nil, fmt.Errorf("run remote commands: write logout: %w", err)
	}
	_ = stdin.Close()

	// Exit status is not part of the contract; failures surface through
	// the error stream policy below.
	waitErr := cmd.Wait()
	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return nil, fmt.Errorf("run remote commands: wait: %w", waitErr)
		}
		r.log(ctx, "ssh session exited non-zero", slog.String("host", req.Host))
	}

	if req.CatchErrors && stderr.Len() > 0 {
		return nil, &CommandError{Stderr: strings.TrimRight(stderr.String(), "\n")}
	}
	return splitLines(stdout.String()), nil
}

// runPiped drives a non-tty session through a shell-interpreted ssh
// invocation. Stdout is scanned line by line with the benign tty warnings
// dropped; stderr is drained concurrently so neither pipe can stall the
// session.
func (r *Runner) runPiped(ctx context.Context, cmd *exec.Cmd, req Request) ([]string, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("run remote commands: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("run remote commands: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("run remote commands: stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("run remote commands: start ssh: %w", err)
	}

	for _, command := range req.Commands {
		if _, err := io.WriteString(stdin, command+"\n"); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return nil, fmt.Errorf("run remote commands: write %q: %w", command, err)
		}
	}
	// End of commands; the remote shell exits once stdin closes.
	_ = stdin.Close()

	errScanCh := make(chan scanResult, 1)
	go func() {
		errScanCh <- scanLines(stderr)
	}()

	var result []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if isBenignWarning(line) {
			continue
		}
		result = append(result, line)
	}
	outErr := scanner.Err()
	if outErr != nil {
		// Keep the child from stalling on a full pipe while stderr and
		// Wait finish up.
		_, _ = io.Copy(io.Discard, stdout)
	}
	errScan := <-errScanCh
	errLines := errScan.lines

	waitErr := cmd.Wait()
	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return nil, fmt.Errorf("run remote commands: wait: %w", waitErr)
		}
		r.log(ctx, "ssh session exited non-zero", slog.String("host", req.Host))
	}
	if outErr != nil {
		return nil, fmt.Errorf("run remote commands: read stdout: %w", outErr)
	}
	if errScan.err != nil {
		return nil, fmt.Errorf("run remote commands: read stderr: %w", errScan.err)
	}

	if req.CatchErrors {
		if req.BannerSize > 0 {
			if req.BannerSize >= len(errLines) {
				errLines = nil
			} else {
				errLines = errLines[req.BannerSize:]
			}
		}
		if len(errLines) > 0 {
			return nil, &CommandError{Stderr: strings.Join(errLines, "\n")}
		}
	}
	return result, nil
}

func (r *Runner) log(ctx context.Context, msg string, attrs ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.DebugContext(ctx, msg, attrs...)
}

func isBenignWarning(line string) bool {
	for _, prefix := range benignWarningPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

type scanResult struct {
	lines []string
	err   error
}

func scanLines(reader io.Reader) scanResult {
	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, reader)
		return scanResult{lines: lines, err: err}
	}
	return scanResult{lines: lines}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
