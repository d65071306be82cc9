// Package maildir implements the directory mailbox kinds, Maildir and MH.
//
// A Maildir keeps each message as a separate file:
//
//	inbox/
//	├── new/     # Newly delivered messages
//	├── cur/     # Messages that have been seen
//	└── tmp/     # Temporary files during delivery
//
// Only cur/ is required for a directory to be recognized. An MH folder is a
// directory of numbered message files, recognized by a marker file such as
// .mh_sequences.
//
// The package registers itself with mailpath.DefaultRegistry for both kinds.
// Import it with a blank identifier to enable maildir support:
//
//	import _ "github.com/infodancer/mailpath/maildir"
//
// Then resolve a path:
//
//	p, err := mailpath.Resolve("/home/alice/Maildir")
package maildir
