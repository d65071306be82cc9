// Package pop implements the POP mailbox kind for pop:// and pops:// URLs.
// A POP server exposes a single mailbox, so POP paths have no parent.
package pop

import (
	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/remote"
)

// Default ports.
const (
	Port    = 110
	PortTLS = 995
)

// Protocol describes POP paths.
var Protocol = remote.Protocol{
	Kind:           mailpath.POP,
	Ports:          map[string]int{"pop": Port, "pops": PortTLS},
	Delimiter:      '/',
	DefaultMailbox: "INBOX",
	NoParent:       true,
}

// New returns a POP backend.
func New() *remote.Backend {
	return remote.New(Protocol)
}
