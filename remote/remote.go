// Package remote holds the URL machinery shared by the network mailbox
// kinds. A Protocol describes one kind's schemes, default ports and
// hierarchy rules; Backend turns it into a mailpath.Backend.
//
// Nothing here opens a connection. Probing a remote path only looks at its
// scheme.
package remote

import (
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/errors"
	"github.com/infodancer/mailpath/pathutil"
)

// Protocol describes a URL-addressed mailbox kind.
type Protocol struct {
	// Kind is reported by Probe.
	Kind mailpath.Kind

	// Ports maps each accepted scheme to its default port.
	Ports map[string]int

	// Delimiter separates hierarchy levels in a mailbox name. Parent uses it
	// unless the caller supplies one.
	Delimiter rune

	// DefaultMailbox replaces an empty mailbox name and matches any case of
	// itself, e.g. "INBOX". Empty means no default.
	DefaultMailbox string

	// InboxFirst sorts DefaultMailbox before every other mailbox.
	InboxFirst bool

	// TopLevelParent is the parent of a mailbox with no delimiter. Empty
	// means such a mailbox has no parent.
	TopLevelParent string

	// NoParent disables Parent entirely.
	NoParent bool

	// EncodeName, if set, maps a mailbox name to its canonical wire form.
	EncodeName func(name string) (string, error)
}

// Backend serves a single Protocol.
type Backend struct {
	proto Protocol
}

var (
	_ mailpath.Backend  = (*Backend)(nil)
	_ mailpath.Expander = (*Backend)(nil)
)

// New returns a backend for proto.
func New(proto Protocol) *Backend {
	if proto.Delimiter == 0 {
		proto.Delimiter = '/'
	}
	return &Backend{proto: proto}
}

// Protocol returns the backend's protocol description.
func (b *Backend) Protocol() Protocol { return b.proto }

// IsLocal returns false.
func (*Backend) IsLocal() bool { return false }

// scheme returns the accepted scheme orig starts with, compared
// case-insensitively.
func (b *Backend) scheme(orig string) (string, bool) {
	lower := strings.ToLower(orig)
	for s := range b.proto.Ports {
		if strings.HasPrefix(lower, s+"://") {
			return s, true
		}
	}
	return "", false
}

// Probe accepts any string starting with one of the protocol's schemes.
func (b *Backend) Probe(orig string, _ fs.FileInfo) (mailpath.Kind, error) {
	if _, ok := b.scheme(orig); !ok {
		return mailpath.Unknown, errors.NotApplicable(orig, "not a "+b.proto.Kind.String()+" url")
	}
	return b.proto.Kind, nil
}

// location is a parsed remote mailbox URL.
type location struct {
	scheme  string
	user    string
	host    string
	port    int
	mailbox string
}

func (b *Backend) parse(s string) (*location, error) {
	scheme, ok := b.scheme(s)
	if !ok {
		return nil, errors.NotApplicable(s, "not a "+b.proto.Kind.String()+" url")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.Malformed(s, err)
	}
	loc := &location{
		scheme:  scheme,
		host:    u.Hostname(),
		mailbox: strings.TrimPrefix(u.Path, "/"),
	}
	if u.User != nil {
		loc.user = u.User.Username()
	}
	if p := u.Port(); p != "" {
		loc.port, err = strconv.Atoi(p)
		if err != nil {
			return nil, errors.Malformed(s, err)
		}
	}
	if loc.host == "" {
		return nil, errors.Malformed(s, errors.New("missing host"))
	}
	return loc, nil
}

func (loc *location) String() string {
	u := url.URL{
		Scheme: loc.scheme,
		Host:   loc.host,
		Path:   "/" + loc.mailbox,
	}
	switch {
	case loc.port != 0:
		u.Host = net.JoinHostPort(loc.host, strconv.Itoa(loc.port))
	case strings.Contains(loc.host, ":"):
		u.Host = "[" + loc.host + "]"
	}
	if loc.user != "" {
		u.User = url.User(loc.user)
	}
	return u.String()
}

func (b *Backend) isDefault(mailbox string) bool {
	return b.proto.DefaultMailbox != "" && strings.EqualFold(mailbox, b.proto.DefaultMailbox)
}

// Tidy lowercases the scheme, drops any password and fills in the default
// mailbox. Host case is kept; Canon folds it.
func (b *Backend) Tidy(orig string) (string, error) {
	loc, err := b.parse(orig)
	if err != nil {
		return "", err
	}
	if b.proto.DefaultMailbox != "" && (loc.mailbox == "" || b.isDefault(loc.mailbox)) {
		loc.mailbox = b.proto.DefaultMailbox
	}
	return loc.String(), nil
}

// accountFor returns the account if it applies to host.
func accountFor(p *mailpath.Path, host string) *mailpath.Account {
	a := p.Account()
	if a == nil {
		return nil
	}
	if a.Host != "" && !strings.EqualFold(a.Host, host) {
		return nil
	}
	return a
}

// fill completes loc's user and port the way Canon does: from the URL, then
// the account, then the scheme default.
func (b *Backend) fill(loc *location, p *mailpath.Path) {
	if a := accountFor(p, loc.host); a != nil {
		if loc.user == "" {
			loc.user = a.User
		}
		if loc.user == "" {
			loc.user = a.Login
		}
		if loc.port == 0 {
			loc.port = a.Port
		}
	}
	if loc.port == 0 {
		loc.port = b.proto.Ports[loc.scheme]
	}
}

// Canon fills in the user and port from the URL, then the account, then the
// scheme default, and folds the host to lower case.
func (b *Backend) Canon(p *mailpath.Path) (string, error) {
	loc, err := b.parse(p.Original())
	if err != nil {
		return "", err
	}
	loc.host = strings.ToLower(loc.host)
	b.fill(loc, p)

	if b.proto.EncodeName != nil && !b.isDefault(loc.mailbox) {
		loc.mailbox, err = b.proto.EncodeName(loc.mailbox)
		if err != nil {
			return "", errors.Malformed(p.Original(), err)
		}
	}
	return loc.String(), nil
}

// Compare orders by scheme, user (absent first), host, port, then mailbox.
// With InboxFirst the default mailbox sorts before any other.
func (b *Backend) Compare(x, y *mailpath.Path) int {
	lx, errx := b.parse(x.Canonical())
	ly, erry := b.parse(y.Canonical())
	if errx != nil || erry != nil {
		return strings.Compare(x.Canonical(), y.Canonical())
	}

	if c := strings.Compare(lx.scheme, ly.scheme); c != 0 {
		return c
	}
	switch {
	case lx.user == "" && ly.user != "":
		return -1
	case lx.user != "" && ly.user == "":
		return 1
	}
	if c := strings.Compare(lx.user, ly.user); c != 0 {
		return c
	}
	if c := strings.Compare(lx.host, ly.host); c != 0 {
		return c
	}
	switch {
	case lx.port < ly.port:
		return -1
	case lx.port > ly.port:
		return 1
	}
	if b.proto.InboxFirst {
		ix, iy := b.isDefault(lx.mailbox), b.isDefault(ly.mailbox)
		switch {
		case ix && !iy:
			return -1
		case !ix && iy:
			return 1
		}
	}
	return strings.Compare(lx.mailbox, ly.mailbox)
}

// Parent strips the last hierarchy level from the mailbox name. A zero delim
// uses the protocol's delimiter. The default mailbox has no parent.
func (b *Backend) Parent(p *mailpath.Path, delim rune) (string, mailpath.Kind, error) {
	if b.proto.NoParent {
		return "", mailpath.Unknown, errors.NotApplicable(p.Original(), b.proto.Kind.String()+" has no folders")
	}
	if delim == 0 {
		delim = b.proto.Delimiter
	}

	loc, err := b.parse(p.Original())
	if err != nil {
		return "", mailpath.Unknown, err
	}
	if loc.mailbox == "" || b.isDefault(loc.mailbox) {
		return "", mailpath.Unknown, errors.NotApplicable(p.Original(), "top of the hierarchy")
	}

	i := strings.LastIndex(loc.mailbox, string(delim))
	switch {
	case i > 0:
		loc.mailbox = loc.mailbox[:i]
	case b.proto.TopLevelParent != "":
		loc.mailbox = b.proto.TopLevelParent
	default:
		return "", mailpath.Unknown, errors.NotApplicable(p.Original(), "top of the hierarchy")
	}
	return loc.String(), b.proto.Kind, nil
}

// Pretty abbreviates the mailbox to "+name" when ctx.Folder is a URL for the
// same server and the mailbox lies below the folder's mailbox. User and port
// are compared after both sides are completed with p's account and the
// scheme default, so Expand of the result resolves to p's canonical path.
func (b *Backend) Pretty(p *mailpath.Path, ctx mailpath.PrettyContext) (string, bool, error) {
	orig := p.Original()
	if ctx.Folder == "" {
		return orig, false, nil
	}
	loc, err := b.parse(orig)
	if err != nil {
		return orig, false, nil
	}
	folder, err := b.parse(ctx.Folder)
	if err != nil || folder.scheme != loc.scheme || !strings.EqualFold(folder.host, loc.host) {
		return orig, false, nil
	}
	b.fill(loc, p)
	b.fill(folder, p)
	if folder.user != loc.user || folder.port != loc.port {
		return orig, false, nil
	}

	base := strings.TrimSuffix(folder.mailbox, string(b.proto.Delimiter))
	if base == "" {
		if loc.mailbox == "" {
			return orig, false, nil
		}
		return pathutil.FolderPrefix + loc.mailbox, true, nil
	}
	rest, ok := strings.CutPrefix(loc.mailbox, base+string(b.proto.Delimiter))
	if !ok || rest == "" {
		return orig, false, nil
	}
	return pathutil.FolderPrefix + rest, true, nil
}

// Expand turns "+name" or "=name" back into a URL below ctx.Folder, joining
// the folder's mailbox and name with the protocol delimiter. It reports
// false unless ctx.Folder is a URL of this protocol.
func (b *Backend) Expand(s string, ctx mailpath.PrettyContext) (string, bool) {
	rest, ok := strings.CutPrefix(s, pathutil.FolderPrefix)
	if !ok {
		rest, ok = strings.CutPrefix(s, pathutil.FolderPrefixAlt)
	}
	if !ok || rest == "" {
		return "", false
	}
	folder, err := b.parse(ctx.Folder)
	if err != nil {
		return "", false
	}

	base := strings.TrimSuffix(folder.mailbox, string(b.proto.Delimiter))
	if base == "" {
		folder.mailbox = rest
	} else {
		folder.mailbox = base + string(b.proto.Delimiter) + rest
	}
	return folder.String(), true
}
