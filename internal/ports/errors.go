package ports

import (
	"errors"
	"fmt"
)

// ErrNoPortsFound is reserved for the exhausted-range case. Pick does not
// return it today; an exhausted range comes back as a no-result instead.
// Declared so callers written against a future stricter contract keep
// compiling. Documented behavior, not an oversight.
var ErrNoPortsFound = errors.New("ports: no unused ports in range")

// CommandNotFoundError reports that the listener-listing tool is not
// installed on the target host.
type CommandNotFoundError struct {
	Host string
}

func (e *CommandNotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("netstat is not installed on the %s device; please install it and try again", e.Host)
}
