package nntp

import "github.com/infodancer/mailpath"

func init() {
	mailpath.Register(mailpath.NNTP, New())
}
