// Package mbox implements the single-file mailbox kinds, mbox and MMDF.
//
// Both kinds are one regular file holding every message. They differ only in
// how messages are separated: mbox starts each message with a "From " line,
// MMDF wraps each one in lines of four Ctrl-A characters.
//
// The package registers itself with mailpath.DefaultRegistry for both kinds:
//
//	import _ "github.com/infodancer/mailpath/mbox"
package mbox

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/errors"
	"github.com/infodancer/mailpath/pathutil"
)

// MMDFSeparator is the line that opens and closes every MMDF message.
const MMDFSeparator = "\x01\x01\x01\x01\n"

// maxMagicLine bounds how much of the first line is read while probing.
const maxMagicLine = 256

// Backend serves mailpath.Mbox and mailpath.MMDF.
type Backend struct{}

var _ mailpath.Backend = (*Backend)(nil)

// New returns an mbox/MMDF backend.
func New() *Backend {
	return &Backend{}
}

// IsLocal returns true.
func (*Backend) IsLocal() bool { return true }

// Probe reads the start of the file to tell mbox from MMDF. An empty file is
// an mbox. Leading blank lines are skipped since some tools write one before
// the first message.
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
	if fi.IsDir() {
		return mailpath.Unknown, errors.WrongShape(orig, "regular file")
	}
	if !fi.Mode().IsRegular() {
		return mailpath.Unknown, errors.NotApplicable(orig, "not a regular file")
	}
	if fi.Size() == 0 {
		return mailpath.Mbox, nil
	}

	f, err := os.Open(orig)
	if err != nil {
		return mailpath.Unknown, errors.NotApplicable(orig, err.Error())
	}
	defer func() { _ = f.Close() }()

	line, err := firstLine(f)
	if err != nil {
		return mailpath.Unknown, errors.NotApplicable(orig, err.Error())
	}
	switch {
	case strings.HasPrefix(line, "From "):
		return mailpath.Mbox, nil
	case line == MMDFSeparator:
		return mailpath.MMDF, nil
	}
	return mailpath.Unknown, errors.NotApplicable(orig, "no mbox or mmdf separator")
}

// firstLine returns the first line that is not blank, including its newline.
func firstLine(r io.Reader) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, 64*1024))
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if b != '\n' && b != '\r' {
			if err := br.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
	}

	var sb strings.Builder
	for sb.Len() < maxMagicLine {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		sb.WriteByte(b)
		if b == '\n' {
			break
		}
	}
	return sb.String(), nil
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

// Parent returns the directory holding the file. Its kind is left Unknown:
// a directory is never an mbox, and whether it is anything else is for the
// caller to probe.
func (*Backend) Parent(p *mailpath.Path, _ rune) (string, mailpath.Kind, error) {
	parent, ok := pathutil.Parent(p.Canonical())
	if !ok {
		return "", mailpath.Unknown, errors.NotApplicable(p.Canonical(), "no parent directory")
	}
	return parent, mailpath.Unknown, nil
}

// Pretty abbreviates the tidied original against the folder, then home.
func (*Backend) Pretty(p *mailpath.Path, ctx mailpath.PrettyContext) (string, bool, error) {
	s, ok := pathutil.Pretty(p.Original(), ctx.Folder, ctx.Home)
	return s, ok, nil
}

// Create makes an empty mbox file at path. It fails if path exists.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	return f.Close()
}
