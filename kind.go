package mailpath

import (
	"fmt"
	"strings"
)

// Kind identifies the mailbox format a path refers to.
// The declaration order is the kind order used by Compare.
type Kind int

const (
	Unknown Kind = iota
	Mbox
	MMDF
	Maildir
	MH
	Compressed
	IMAP
	POP
	NNTP
	Notmuch
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Mbox:
		return "mbox"
	case MMDF:
		return "mmdf"
	case Maildir:
		return "maildir"
	case MH:
		return "mh"
	case Compressed:
		return "compressed"
	case IMAP:
		return "imap"
	case POP:
		return "pop"
	case NNTP:
		return "nntp"
	case Notmuch:
		return "notmuch"
	}
	panic(fmt.Sprintf("mailpath: invalid Kind %d", int(k)))
}

// Kinds returns every known kind except Unknown, in kind order.
func Kinds() []Kind {
	return []Kind{Mbox, MMDF, Maildir, MH, Compressed, IMAP, POP, NNTP, Notmuch}
}

// ParseKind maps a configuration name to a Kind. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("mailpath: unknown mailbox kind %q", name)
}
