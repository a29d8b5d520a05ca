package ports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	gnet "github.com/shirou/gopsutil/v3/net"
)

// ListenerSet answers membership questions about a host's listening
// sockets. The matching strategy lives behind this interface so the
// free-text scrape below can be swapped for a structured parse without
// touching callers.
type ListenerSet interface {
	// Missing reports that the listing tool itself was absent on the target.
	Missing() bool
	// InUse reports whether the given port should be treated as taken.
	InUse(port int) bool
}

// scrapedListing is the historical policy: the raw listing lines joined
// into one string, membership decided by unanchored substring search.
// A candidate port can therefore collide with any number it is a
// substring of (80 matches "8080"). Known weakness, kept for parity with
// the tooling this replaces.
type scrapedListing struct {
	text string
}

func newScrapedListing(lines []string) scrapedListing {
	return scrapedListing{text: strings.Join(lines, ", ")}
}

func (l scrapedListing) Missing() bool {
	return strings.Contains(l.text, "command not found")
}

func (l scrapedListing) InUse(port int) bool {
	return strings.Contains(l.text, strconv.Itoa(port))
}

// portSet is the structured alternative: exact membership over enumerated
// listener ports.
type portSet map[int]struct{}

func (s portSet) Missing() bool { return false }

func (s portSet) InUse(port int) bool {
	_, ok := s[port]
	return ok
}

// LocalListeners enumerates the local host's bound TCP listeners and UDP
// sockets directly from the kernel, the same population `netstat -tulnp`
// prints. Exact matching, no scrape; offered for callers on the local host
// that cannot tolerate the substring policy's false positives.
func LocalListeners(ctx context.Context) (ListenerSet, error) {
	conns, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("enumerate local listeners: %w", err)
	}

	set := portSet{}
	for _, conn := range conns {
		switch {
		case conn.Type == syscall.SOCK_DGRAM:
			set[int(conn.Laddr.Port)] = struct{}{}
		case conn.Status == "LISTEN":
			set[int(conn.Laddr.Port)] = struct{}{}
		}
	}
	return set, nil
}
