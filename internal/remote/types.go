package remote

// DefaultSSHPort is used when a Request leaves Port unset.
const DefaultSSHPort = 22

// Request describes a single remote session: which host to reach, what to
// run there, and how strictly to treat the error stream.
type Request struct {
	// Host is a hostname or IP address. SSH key auth must already be in
	// place for the target account; no credentials are handled here.
	Host string

	// Port is the SSH port, defaulting to DefaultSSHPort when zero.
	Port int

	// Commands are written verbatim to the session's stdin, one per line,
	// in order.
	Commands []string

	// TTY requests a pseudo-terminal. Required when a command needs an
	// allocated terminal (sudo prompts and the like), at the cost of
	// coarser output handling.
	TTY bool

	// CatchErrors treats any non-banner stderr text as failure. Some
	// remote tools write diagnostics to stderr on success; callers that
	// know this should disable it and inspect the output themselves.
	CatchErrors bool

	// BannerSize is the number of leading stderr lines to discard before
	// error checking. Login banners tend to land on stderr.
	BannerSize int
}
