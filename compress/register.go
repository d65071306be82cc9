package compress

import "github.com/infodancer/mailpath"

func init() {
	mailpath.Register(mailpath.Compressed, New(nil))
}
