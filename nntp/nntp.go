// Package nntp implements the news mailbox kind for news:// and snews:// URLs.
// The mailbox name is a newsgroup; its hierarchy is separated by dots.
package nntp

import (
	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/remote"
)

// Default ports.
const (
	Port    = 119
	PortTLS = 563
)

// Protocol describes news paths.
var Protocol = remote.Protocol{
	Kind:      mailpath.NNTP,
	Ports:     map[string]int{"news": Port, "snews": PortTLS},
	Delimiter: '.',
}

// New returns a news backend.
func New() *remote.Backend {
	return remote.New(Protocol)
}
