// Package notmuch implements the virtual notmuch mailbox kind: a saved
// search over a notmuch database, written as
//
//	notmuch:///path/to/database?query=tag:inbox&limit=50
//
// The database path is never touched; a notmuch path is canonical as soon
// as it is tidy.
package notmuch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/errors"
)

// Scheme is the URL scheme of notmuch paths.
const Scheme = "notmuch"

const prefix = Scheme + "://"

// Backend serves mailpath.Notmuch.
type Backend struct{}

var (
	_ mailpath.Backend  = (*Backend)(nil)
	_ mailpath.Expander = (*Backend)(nil)
)

// New returns a notmuch backend.
func New() *Backend {
	return &Backend{}
}

// IsLocal returns false: probing never needs the filesystem.
func (*Backend) IsLocal() bool { return false }

func hasPrefix(s string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Probe accepts any string starting with notmuch://, in any case.
func (*Backend) Probe(orig string, _ fs.FileInfo) (mailpath.Kind, error) {
	if !hasPrefix(orig) {
		return mailpath.Unknown, errors.NotApplicable(orig, "not a notmuch url")
	}
	return mailpath.Notmuch, nil
}

type param struct {
	name, value string
}

// query is a parsed notmuch URL.
type query struct {
	db     string
	params []param
}

func parse(s string) (*query, error) {
	if !hasPrefix(s) {
		return nil, errors.NotApplicable(s, "not a notmuch url")
	}
	rest := s[len(prefix):]
	db, raw, _ := strings.Cut(rest, "?")

	q := &query{}
	if db != "" {
		q.db = filepath.Clean(db)
	}
	if raw != "" {
		for _, pair := range strings.Split(raw, "&") {
			if pair == "" {
				continue
			}
			name, value, _ := strings.Cut(pair, "=")
			q.params = append(q.params, param{name: name, value: value})
		}
	}
	return q, nil
}

func (q *query) rawQuery() string {
	pairs := make([]string, len(q.params))
	for i, p := range q.params {
		pairs[i] = p.name + "=" + p.value
	}
	return strings.Join(pairs, "&")
}

func (q *query) String() string {
	s := prefix + q.db
	if len(q.params) > 0 {
		s += "?" + q.rawQuery()
	}
	return s
}

// Tidy lowercases the scheme, cleans the database path and sorts the query
// parameters by name, then value. Repeated parameters are kept.
func (*Backend) Tidy(orig string) (string, error) {
	q, err := parse(orig)
	if err != nil {
		return "", err
	}
	sort.SliceStable(q.params, func(i, j int) bool {
		if q.params[i].name != q.params[j].name {
			return q.params[i].name < q.params[j].name
		}
		return q.params[i].value < q.params[j].value
	})
	return q.String(), nil
}

// Canon returns the tidied path unchanged.
func (*Backend) Canon(p *mailpath.Path) (string, error) {
	return p.Original(), nil
}

// Compare orders canonical paths byte-wise.
func (*Backend) Compare(a, b *mailpath.Path) int {
	return strings.Compare(a.Canonical(), b.Canonical())
}

// Parent always reports ErrNotApplicable: searches have no hierarchy.
func (*Backend) Parent(p *mailpath.Path, _ rune) (string, mailpath.Kind, error) {
	return "", mailpath.Unknown, errors.NotApplicable(p.Canonical(), "notmuch searches have no parent")
}

// Pretty drops the database path when ctx.Folder names the same database,
// leaving the "notmuch://?query" shorthand that Expand restores.
func (*Backend) Pretty(p *mailpath.Path, ctx mailpath.PrettyContext) (string, bool, error) {
	orig := p.Original()
	if !hasPrefix(ctx.Folder) {
		return orig, false, nil
	}
	q, err := parse(orig)
	if err != nil {
		return orig, false, nil
	}
	folder, err := parse(ctx.Folder)
	if err != nil || folder.db != q.db || len(q.params) == 0 {
		return orig, false, nil
	}
	return prefix + "?" + q.rawQuery(), true, nil
}

// Expand restores the database of a "notmuch://?query" shorthand from
// ctx.Folder. It reports false for any other string, or when the folder is
// not a notmuch URL naming a database.
func (*Backend) Expand(s string, ctx mailpath.PrettyContext) (string, bool) {
	if !hasPrefix(s) || !hasPrefix(ctx.Folder) {
		return "", false
	}
	q, err := parse(s)
	if err != nil || q.db != "" || len(q.params) == 0 {
		return "", false
	}
	folder, err := parse(ctx.Folder)
	if err != nil || folder.db == "" {
		return "", false
	}
	q.db = folder.db
	return q.String(), true
}
