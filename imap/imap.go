// Package imap implements the IMAP mailbox kind for imap:// and imaps:// URLs.
//
// Canonical mailbox names are NFC-normalized and then encoded in modified
// UTF-7 (RFC 3501 section 5.1.3), the form an IMAP server expects on the wire.
package imap

import (
	"unicode/utf8"

	"github.com/emersion/go-imap/utf7"
	"golang.org/x/text/unicode/norm"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/remote"
)

// Default ports.
const (
	Port    = 143
	PortTLS = 993
)

// Inbox is the name of the mailbox every IMAP account has.
const Inbox = "INBOX"

// Protocol describes IMAP paths.
var Protocol = remote.Protocol{
	Kind:           mailpath.IMAP,
	Ports:          map[string]int{"imap": Port, "imaps": PortTLS},
	Delimiter:      '/',
	DefaultMailbox: Inbox,
	InboxFirst:     true,
	TopLevelParent: Inbox,
	EncodeName:     EncodeName,
}

// New returns an IMAP backend.
func New() *remote.Backend {
	return remote.New(Protocol)
}

// EncodeName returns the modified UTF-7 form of a mailbox name. Names that
// are plain ASCII are taken to be encoded already and returned unchanged.
func EncodeName(name string) (string, error) {
	name = norm.NFC.String(name)
	if isASCII(name) {
		return name, nil
	}
	return utf7.Encoding.NewEncoder().String(name)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
