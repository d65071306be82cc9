package mailpath

import "io/fs"

// PrettyContext carries the locations Pretty abbreviates against.
// Either field may be empty.
type PrettyContext struct {
	// Folder is the user's mail folder, a directory or a URL. Paths below it
	// are shown as "+rest".
	Folder string
	// Home is the user's home directory. Paths below it are shown as "~/rest".
	Home string
}

// Backend implements the path operations for one or more mailbox kinds.
//
// Backends are pure: they read the values handed to them and return results.
// The Registry owns every state transition of a Path. Any method may return
// an error wrapping errors.ErrNotApplicable to say it has no answer.
type Backend interface {
	// IsLocal reports whether the backend's mailboxes live on the filesystem.
	IsLocal() bool

	// Probe decides whether orig is one of the backend's kinds. Local
	// backends receive the file's metadata; remote ones get nil.
	Probe(orig string, fi fs.FileInfo) (Kind, error)

	// Tidy normalizes orig without consulting the filesystem.
	Tidy(orig string) (string, error)

	// Canon returns the canonical string for a typed path.
	Canon(p *Path) (string, error)

	// Compare orders two canonical paths of the same kind.
	Compare(a, b *Path) int

	// Parent returns the parent mailbox of a canonical path. A zero delim
	// selects the backend's default hierarchy delimiter. The returned kind
	// may be Unknown when the parent's format is not known.
	Parent(p *Path, delim rune) (string, Kind, error)

	// Pretty abbreviates a canonical path for display. The bool reports
	// whether an abbreviation was applied. Local kinds may render the tidied
	// original rather than the canonical path, so do not treat the result as
	// canonical.
	Pretty(p *Path, ctx PrettyContext) (string, bool, error)
}

// Expander is implemented by backends whose Pretty output cannot be undone
// by pathutil.Expand, e.g. URL kinds with a hierarchy delimiter other than
// "/". Expand reports false when s or ctx is not one of its forms.
type Expander interface {
	Expand(s string, ctx PrettyContext) (string, bool)
}
