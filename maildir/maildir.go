package maildir

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/errors"
	"github.com/infodancer/mailpath/pathutil"
)

// mhMarkers are the files whose presence marks a directory as MH.
// .overview is not MH at all, but it lets a news spool be read as one.
var mhMarkers = []string{
	".mh_sequences",
	".xmhcache",
	".mew_cache",
	".mew-cache",
	".sylpheed_cache",
	".overview",
}

// Backend serves mailpath.Maildir and mailpath.MH.
type Backend struct{}

var _ mailpath.Backend = (*Backend)(nil)

// New returns a Maildir/MH backend.
func New() *Backend {
	return &Backend{}
}

// IsLocal returns true.
func (*Backend) IsLocal() bool { return true }

// isMaildir checks for a cur subdirectory. new and tmp are not required.
func isMaildir(path string) bool {
	info, err := os.Stat(filepath.Join(path, "cur"))
	return err == nil && info.IsDir()
}

// isMH checks for any of the MH marker files.
func isMH(path string) bool {
	for _, name := range mhMarkers {
		if _, err := os.Lstat(filepath.Join(path, name)); err == nil {
			return true
		}
	}
	return false
}

// Probe accepts a directory that looks like a Maildir, then one that looks
// like MH. A regular file is the wrong shape for either.
func (*Backend) Probe(orig string, fi fs.FileInfo) (mailpath.Kind, error) {
	if fi == nil {
		var err error
		fi, err = os.Stat(orig)
		if err != nil {
			if os.IsNotExist(err) {
				return mailpath.Unknown, errors.Missing(orig, err)
			}
			return mailpath.Unknown, err
		}
	}
	if !fi.IsDir() {
		return mailpath.Unknown, errors.WrongShape(orig, "directory")
	}

	switch {
	case isMaildir(orig):
		return mailpath.Maildir, nil
	case isMH(orig):
		return mailpath.MH, nil
	}
	return mailpath.Unknown, errors.NotApplicable(orig, "neither maildir nor mh")
}

// Tidy cleans the filesystem path.
func (*Backend) Tidy(orig string) (string, error) {
	return pathutil.Tidy(orig)
}

// Canon resolves the path with every symlink followed.
func (*Backend) Canon(p *mailpath.Path) (string, error) {
	return pathutil.Canon(p.Original())
}

// Compare orders canonical paths byte-wise.
func (*Backend) Compare(a, b *mailpath.Path) int {
	return strings.Compare(a.Canonical(), b.Canonical())
}

// Parent returns the containing directory when it is a mailbox of the same
// kind, e.g. a Maildir++ folder inside its Maildir.
func (*Backend) Parent(p *mailpath.Path, _ rune) (string, mailpath.Kind, error) {
	dir, ok := pathutil.Parent(p.Canonical())
	if !ok {
		return "", mailpath.Unknown, errors.NotApplicable(p.Canonical(), "no parent directory")
	}

	var same bool
	switch p.Kind() {
	case mailpath.Maildir:
		same = isMaildir(dir)
	case mailpath.MH:
		same = isMH(dir)
	}
	if !same {
		return "", mailpath.Unknown, errors.NotApplicable(p.Canonical(), "parent is not a "+p.Kind().String())
	}
	return dir, p.Kind(), nil
}

// Pretty abbreviates the tidied original against the folder, then home.
func (*Backend) Pretty(p *mailpath.Path, ctx mailpath.PrettyContext) (string, bool, error) {
	s, ok := pathutil.Pretty(p.Original(), ctx.Folder, ctx.Home)
	return s, ok, nil
}
