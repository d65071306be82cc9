package pop

import "github.com/infodancer/mailpath"

func init() {
	mailpath.Register(mailpath.POP, New())
}
