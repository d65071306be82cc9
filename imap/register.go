package imap

import "github.com/infodancer/mailpath"

func init() {
	mailpath.Register(mailpath.IMAP, New())
}
