// Package mailpath identifies, normalizes and compares mailbox paths.
//
// A mailbox path is a user-supplied location string: an mbox or MMDF file,
// a Maildir or MH directory, a compressed archive, a remote IMAP, POP or
// NNTP URL, or a notmuch query. Each kind is served by a Backend living in
// its own subpackage, which registers itself with DefaultRegistry from
// init(). Import the backends you need with a blank identifier, or all of
// them at once:
//
//	import _ "github.com/infodancer/mailpath/all"
//
// A Path moves strictly forward through its states:
//
//	Fresh -> Tidied -> Typed -> Canonical
//
// Resolve runs the whole pipeline:
//
//	p, err := mailpath.Resolve("~/Mail/inbox")
//	if errors.Is(err, errors.ErrMissing) {
//	    // offer to create it
//	}
//	s, _, _ := mailpath.Pretty(p, mailpath.PrettyContext{Folder: folder, Home: home})
package mailpath
