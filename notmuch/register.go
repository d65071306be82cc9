package notmuch

import "github.com/infodancer/mailpath"

func init() {
	mailpath.Register(mailpath.Notmuch, New())
}
