// Package compress implements the compressed mailbox kind: a single-file
// mailbox stored through an external compressor, e.g. inbox.gz.
//
// Whether a file is readable as a compressed mailbox is decided by a
// pluggable predicate. The registered backend accepts DefaultSuffixes.
package compress

import (
	"io/fs"
	"os"
	"strings"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/errors"
	"github.com/infodancer/mailpath/pathutil"
)

// DefaultSuffixes are the file suffixes the registered backend accepts.
var DefaultSuffixes = []string{".gz", ".bz2", ".xz"}

// CanRead reports whether path can be opened as a compressed mailbox.
type CanRead func(path string) bool

// SuffixPredicate accepts paths ending in one of suffixes.
func SuffixPredicate(suffixes ...string) CanRead {
	list := append([]string(nil), suffixes...)
	return func(path string) bool {
		for _, s := range list {
			if s != "" && strings.HasSuffix(path, s) {
				return true
			}
		}
		return false
	}
}

// Backend serves mailpath.Compressed.
type Backend struct {
	canRead CanRead
}

var _ mailpath.Backend = (*Backend)(nil)

// New returns a backend accepting files for which canRead is true.
// A nil canRead uses DefaultSuffixes.
func New(canRead CanRead) *Backend {
	if canRead == nil {
		canRead = SuffixPredicate(DefaultSuffixes...)
	}
	return &Backend{canRead: canRead}
}

// IsLocal returns true.
func (*Backend) IsLocal() bool { return true }

// Probe accepts a regular file the predicate can read. A directory is the
// wrong shape even when its name matches.
func (b *Backend) Probe(orig string, fi fs.FileInfo) (mailpath.Kind, error) {
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
	if fi.IsDir() {
		return mailpath.Unknown, errors.WrongShape(orig, "regular file")
	}
	if !fi.Mode().IsRegular() {
		return mailpath.Unknown, errors.NotApplicable(orig, "not a regular file")
	}
	if !b.canRead(orig) {
		return mailpath.Unknown, errors.NotApplicable(orig, "no decompressor")
	}
	return mailpath.Compressed, nil
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

// Parent always reports ErrNotApplicable: an archive has no parent mailbox.
func (*Backend) Parent(p *mailpath.Path, _ rune) (string, mailpath.Kind, error) {
	return "", mailpath.Unknown, errors.NotApplicable(p.Canonical(), "compressed mailboxes have no parent")
}

// Pretty abbreviates the canonical path, since that names the actual file.
func (*Backend) Pretty(p *mailpath.Path, ctx mailpath.PrettyContext) (string, bool, error) {
	s, ok := pathutil.Pretty(p.Canonical(), ctx.Folder, ctx.Home)
	return s, ok, nil
}
