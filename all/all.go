// Package all registers every mailbox backend with mailpath.DefaultRegistry.
//
//	import _ "github.com/infodancer/mailpath/all"
package all

import (
	// Each backend registers itself from init().
	_ "github.com/infodancer/mailpath/compress"
	_ "github.com/infodancer/mailpath/imap"
	_ "github.com/infodancer/mailpath/maildir"
	_ "github.com/infodancer/mailpath/mbox"
	_ "github.com/infodancer/mailpath/nntp"
	_ "github.com/infodancer/mailpath/notmuch"
	_ "github.com/infodancer/mailpath/pop"
)
