package ports

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dcsteve24/go-utilities/internal/remote"
)

// listingCommand enumerates listening sockets on the target. Output is
// free text and is scraped, not parsed.
const listingCommand = "netstat -tulnp"

// maxListingLineBytes caps one listing line. Wide netstat rows blow
// past bufio's 64KB default, which would otherwise truncate the
// listing silently.
const maxListingLineBytes = 1024 * 1024

// commandRunner is the slice of remote.Runner the picker needs.
type commandRunner interface {
	Run(ctx context.Context, req remote.Request) ([]string, error)
}

// Request names the host to inspect and the candidate range. Min is
// inclusive, Max exclusive. An empty host, or any host containing
// "local", is inspected via a local subprocess instead of SSH.
type Request struct {
	Host    string
	SSHPort int
	Min     int
	Max     int
}

// Picker finds the first port in a range that a host does not currently
// report as listening.
type Picker struct {
	// Logger receives debug records per pick. Nil disables logging.
	Logger *slog.Logger

	runner         commandRunner
	localFactory   func(ctx context.Context, binary string, args ...string) *exec.Cmd
	localListeners func(ctx context.Context) (ListenerSet, error)
}

func NewPicker(runner *remote.Runner) *Picker {
	return &Picker{runner: runner}
}

// Pick pulls the target's listener listing and scans [req.Min, req.Max)
// ascending, returning the first port whose decimal string does not occur
// in the listing. ok is false when the whole range is taken; that case is
// deliberately not an error (see ErrNoPortsFound). A listing showing the
// tool itself is absent fails with *CommandNotFoundError.
func (p *Picker) Pick(ctx context.Context, req Request) (port int, ok bool, err error) {
	if req.Min >= req.Max {
		return 0, false, fmt.Errorf("pick port: empty range [%d, %d)", req.Min, req.Max)
	}

	var lines []string
	if IsLocalHost(req.Host) {
		lines, err = p.listLocal(ctx)
	} else {
		// The listing command benefits from an allocated terminal, and
		// netstat writes non-fatal notes to stderr, so error catching
		// stays off and the output is inspected instead.
		lines, err = p.runner.Run(ctx, remote.Request{
			Host:        req.Host,
			Port:        req.SSHPort,
			Commands:    []string{listingCommand},
			TTY:         true,
			CatchErrors: false,
		})
	}
	if err != nil {
		return 0, false, fmt.Errorf("pick port: list listeners on %s: %w", hostLabel(req.Host), err)
	}

	listing := newScrapedListing(lines)
	if listing.Missing() {
		return 0, false, &CommandNotFoundError{Host: hostLabel(req.Host)}
	}

	for candidate := req.Min; candidate < req.Max; candidate++ {
		if listing.InUse(candidate) {
			continue
		}
		if p.Logger != nil {
			p.Logger.DebugContext(ctx, "picked unused port",
				slog.String("host", hostLabel(req.Host)),
				slog.Int("port", candidate))
		}
		return candidate, true, nil
	}
	if p.Logger != nil {
		p.Logger.DebugContext(ctx, "no unused port in range",
			slog.String("host", hostLabel(req.Host)),
			slog.Int("min", req.Min),
			slog.Int("max", req.Max))
	}
	return 0, false, nil
}

// PickExact is the structured variant for the local host only: listeners
// come from the kernel via LocalListeners, so membership is exact and the
// substring policy's false positives cannot occur. Remote hosts stay on
// Pick; there is no structured listing across SSH.
func (p *Picker) PickExact(ctx context.Context, min, max int) (port int, ok bool, err error) {
	if min >= max {
		return 0, false, fmt.Errorf("pick port: empty range [%d, %d)", min, max)
	}
	source := p.localListeners
	if source == nil {
		source = LocalListeners
	}
	set, err := source(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("pick port: %w", err)
	}
	for candidate := min; candidate < max; candidate++ {
		if !set.InUse(candidate) {
			return candidate, true, nil
		}
	}
	return 0, false, nil
}

// listLocal runs the listing command as a local shell subprocess. Only
// stdout is captured; stderr noise is ignored here the same way the
// remote path disables error catching.
func (p *Picker) listLocal(ctx context.Context) ([]string, error) {
	factory := p.localFactory
	if factory == nil {
		factory = exec.CommandContext
	}
	cmd := factory(ctx, "sh", "-c", listingCommand)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxListingLineBytes)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		_, _ = io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return nil, fmt.Errorf("wait: %w", err)
		}
	}
	if scanErr != nil {
		// A truncated listing would make a bound port look free.
		return nil, fmt.Errorf("read listing: %w", scanErr)
	}
	return lines, nil
}

// IsLocalHost reports whether host names this machine rather than an SSH
// target. Empty and anything containing "local" count.
func IsLocalHost(host string) bool {
	return host == "" || strings.Contains(host, "local")
}

func hostLabel(host string) string {
	if host == "" {
		return "local"
	}
	return host
}
