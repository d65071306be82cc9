package maildir

import "github.com/infodancer/mailpath"

func init() {
	b := New()
	mailpath.Register(mailpath.Maildir, b)
	mailpath.Register(mailpath.MH, b)
}
