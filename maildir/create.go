package maildir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emersion/go-maildir"

	"github.com/infodancer/mailpath"
)

// Create makes an empty mailbox of kind (Maildir or MH) at path, creating
// parent directories as needed. An existing mailbox of that kind is left
// alone.
func Create(path string, kind mailpath.Kind) error {
	if kind != mailpath.Maildir && kind != mailpath.MH {
		return fmt.Errorf("maildir: cannot create a %s mailbox", kind)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return err
	}

	switch kind {
	case mailpath.Maildir:
		if isMaildir(path) {
			return nil
		}
		return maildir.Dir(path).Init()
	case mailpath.MH:
		if isMH(path) {
			return nil
		}
		f, err := os.OpenFile(filepath.Join(path, ".mh_sequences"), os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}
