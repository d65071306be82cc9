package mbox

import "github.com/infodancer/mailpath"

func init() {
	b := New()
	mailpath.Register(mailpath.Mbox, b)
	mailpath.Register(mailpath.MMDF, b)
}
