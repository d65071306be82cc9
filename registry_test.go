package mailpath_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/errors"
	"github.com/infodancer/mailpath/pathutil"
)

// fileBackend treats every regular file as an mbox.
type fileBackend struct{}

func (*fileBackend) IsLocal() bool { return true }

func (*fileBackend) Probe(orig string, fi fs.FileInfo) (mailpath.Kind, error) {
	if fi.IsDir() {
		return mailpath.Unknown, errors.WrongShape(orig, "regular file")
	}
	return mailpath.Mbox, nil
}

func (*fileBackend) Tidy(orig string) (string, error) { return pathutil.Tidy(orig) }

func (*fileBackend) Canon(p *mailpath.Path) (string, error) { return pathutil.Canon(p.Original()) }

func (*fileBackend) Compare(a, b *mailpath.Path) int {
	return strings.Compare(a.Canonical(), b.Canonical())
}

func (*fileBackend) Parent(p *mailpath.Path, _ rune) (string, mailpath.Kind, error) {
	parent, ok := pathutil.Parent(p.Canonical())
	if !ok {
		return "", mailpath.Unknown, errors.NotApplicable(p.Canonical(), "root")
	}
	return parent, mailpath.Unknown, nil
}

func (*fileBackend) Pretty(p *mailpath.Path, ctx mailpath.PrettyContext) (string, bool, error) {
	s, ok := pathutil.Pretty(p.Canonical(), ctx.Folder, ctx.Home)
	return s, ok, nil
}

// urlBackend accepts "fake://" strings and appends the account user on canon.
type urlBackend struct{}

func (*urlBackend) IsLocal() bool { return false }

func (*urlBackend) Probe(orig string, _ fs.FileInfo) (mailpath.Kind, error) {
	if strings.HasPrefix(orig, "fake://") {
		return mailpath.IMAP, nil
	}
	return mailpath.Unknown, errors.NotApplicable(orig, "not a fake URL")
}

func (b *urlBackend) Tidy(orig string) (string, error) {
	if _, err := b.Probe(orig, nil); err != nil {
		return "", err
	}
	return strings.TrimSuffix(orig, "/"), nil
}

func (*urlBackend) Canon(p *mailpath.Path) (string, error) {
	if a := p.Account(); a != nil {
		return p.Original() + "#" + a.User, nil
	}
	return p.Original(), nil
}

func (*urlBackend) Compare(a, b *mailpath.Path) int {
	return strings.Compare(a.Canonical(), b.Canonical())
}

func (*urlBackend) Parent(p *mailpath.Path, _ rune) (string, mailpath.Kind, error) {
	i := strings.LastIndex(p.Original(), "/")
	if i <= len("fake://") {
		return "", mailpath.Unknown, errors.NotApplicable(p.Original(), "top level")
	}
	return p.Original()[:i], mailpath.IMAP, nil
}

func (*urlBackend) Pretty(p *mailpath.Path, _ mailpath.PrettyContext) (string, bool, error) {
	return p.Original(), false, nil
}

// expandingBackend is a urlBackend that expands "+name" below a fake:// folder
// with a "." delimiter.
type expandingBackend struct{ urlBackend }

func (*expandingBackend) Expand(s string, ctx mailpath.PrettyContext) (string, bool) {
	name, ok := strings.CutPrefix(s, "+")
	if !ok || !strings.HasPrefix(ctx.Folder, "fake://") {
		return "", false
	}
	return ctx.Folder + "." + name, true
}

func newTestRegistry() *mailpath.Registry {
	r := mailpath.NewRegistry()
	r.Register(mailpath.Mbox, &fileBackend{})
	r.Register(mailpath.IMAP, &urlBackend{})
	return r
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestRegister_Panics(t *testing.T) {
	r := mailpath.NewRegistry()
	mustPanic(t, "unknown kind", func() { r.Register(mailpath.Unknown, &fileBackend{}) })
	mustPanic(t, "nil backend", func() { r.Register(mailpath.Mbox, nil) })

	r.Register(mailpath.Mbox, &fileBackend{})
	mustPanic(t, "duplicate", func() { r.Register(mailpath.Mbox, &fileBackend{}) })
}

func TestKindsAndUnregistered(t *testing.T) {
	r := newTestRegistry()

	kinds := r.Kinds()
	if len(kinds) != 2 || kinds[0] != mailpath.Mbox || kinds[1] != mailpath.IMAP {
		t.Fatalf("Kinds() = %v, want [mbox imap]", kinds)
	}

	missing := r.Unregistered()
	if len(missing) != len(mailpath.Kinds())-2 {
		t.Fatalf("Unregistered() = %v", missing)
	}
	for _, k := range missing {
		if k == mailpath.Mbox || k == mailpath.IMAP {
			t.Fatalf("registered kind %s reported as unregistered", k)
		}
	}
}

func TestBackend_NotRegistered(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.Backend(mailpath.NNTP); !errors.Is(err, errors.ErrBackendNotRegistered) {
		t.Fatalf("expected ErrBackendNotRegistered, got %v", err)
	}
}

func TestTidy(t *testing.T) {
	r := newTestRegistry()

	p := mailpath.New("/mail/./inbox//")
	if err := r.Tidy(p); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if p.Original() != "/mail/inbox" {
		t.Fatalf("Original() = %q, want /mail/inbox", p.Original())
	}
	if p.State() != mailpath.Tidied {
		t.Fatalf("State() = %s, want tidied", p.State())
	}

	// Remote backends get the first chance.
	u := mailpath.New("fake://host/box/")
	if err := r.Tidy(u); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if u.Original() != "fake://host/box" {
		t.Fatalf("Original() = %q, want fake://host/box", u.Original())
	}
}

func TestTidy_Idempotent(t *testing.T) {
	r := newTestRegistry()
	p := mailpath.New("/a/b/../c")
	if err := r.Tidy(p); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	first := p.Original()
	if err := r.Tidy(p); err != nil {
		t.Fatalf("second Tidy failed: %v", err)
	}
	q := mailpath.New(first)
	if err := r.Tidy(q); err != nil {
		t.Fatalf("Tidy of tidied string failed: %v", err)
	}
	if p.Original() != first || q.Original() != first {
		t.Fatalf("tidy not idempotent: %q, %q, %q", first, p.Original(), q.Original())
	}
}

func TestTidy_Typed(t *testing.T) {
	r := newTestRegistry()
	p := mailpath.NewTyped("fake://host/box", mailpath.IMAP)
	if err := r.Tidy(p); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if p.State() != mailpath.Typed {
		t.Fatalf("State() = %s, want typed", p.State())
	}
	// Probe is a no-op on a typed path.
	if err := r.Probe(p, nil); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
}

func TestTidy_Malformed(t *testing.T) {
	r := newTestRegistry()
	p := mailpath.New("")
	if err := r.Tidy(p); !errors.Is(err, errors.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if p.State() != mailpath.Fresh {
		t.Fatalf("failed Tidy changed state to %s", p.State())
	}
}

func TestProbe_RequiresTidy(t *testing.T) {
	r := newTestRegistry()
	err := r.Probe(mailpath.New("/tmp"), nil)
	if !errors.IsContractViolation(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestProbe_Outcomes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "inbox")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r := newTestRegistry()

	tests := []struct {
		name string
		raw  string
		kind mailpath.Kind
		want error
	}{
		{"file", file, mailpath.Mbox, nil},
		{"remote", "fake://host/box", mailpath.IMAP, nil},
		{"missing", filepath.Join(dir, "nope"), mailpath.Unknown, errors.ErrMissing},
		{"directory", dir, mailpath.Unknown, errors.ErrWrongShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mailpath.New(tt.raw)
			if err := r.Tidy(p); err != nil {
				t.Fatalf("Tidy failed: %v", err)
			}
			err := r.Probe(p, nil)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("Probe() error = %v, want %v", err, tt.want)
				}
				if p.State() != mailpath.Tidied {
					t.Fatalf("failed Probe changed state to %s", p.State())
				}
				return
			}
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if p.Kind() != tt.kind || p.State() != mailpath.Typed {
				t.Fatalf("got kind %s state %s, want %s typed", p.Kind(), p.State(), tt.kind)
			}
		})
	}
}

func TestProbeAs(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegistry()

	p := mailpath.New(dir)
	if err := r.Tidy(p); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if err := r.ProbeAs(p, mailpath.Mbox, nil); !errors.Is(err, errors.ErrWrongShape) {
		t.Fatalf("expected ErrWrongShape, got %v", err)
	}
	if err := r.ProbeAs(p, mailpath.NNTP, nil); !errors.Is(err, errors.ErrBackendNotRegistered) {
		t.Fatalf("expected ErrBackendNotRegistered, got %v", err)
	}
}

func TestProbe_StatFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "inbox")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// A regular file used as a directory fails with ENOTDIR, not ENOENT.
	raw := filepath.Join(file, "child")
	r := newTestRegistry()

	probes := map[string]func(*mailpath.Path) error{
		"Probe":   func(p *mailpath.Path) error { return r.Probe(p, nil) },
		"ProbeAs": func(p *mailpath.Path) error { return r.ProbeAs(p, mailpath.Mbox, nil) },
	}
	for name, fn := range probes {
		t.Run(name, func(t *testing.T) {
			p := mailpath.New(raw)
			if err := r.Tidy(p); err != nil {
				t.Fatalf("Tidy failed: %v", err)
			}
			err := fn(p)
			if !errors.Is(err, errors.ErrInaccessible) {
				t.Fatalf("%s() error = %v, want ErrInaccessible", name, err)
			}
			if errors.Is(err, errors.ErrMissing) {
				t.Fatalf("%s() error = %v, reported as missing", name, err)
			}
			if !errors.IsUserFacing(err) {
				t.Fatalf("%s() error %v is not user facing", name, err)
			}
			if p.State() != mailpath.Tidied {
				t.Fatalf("failed %s changed state to %s", name, p.State())
			}
		})
	}
}

func TestCanon_RequiresTyped(t *testing.T) {
	r := newTestRegistry()
	p := mailpath.New("/tmp")
	if err := r.Tidy(p); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if err := r.Canon(p); !errors.IsContractViolation(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestCanon_SymlinkTransparency(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	link := filepath.Join(dir, "link")
	if err := os.WriteFile(real, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.Symlink(real, link); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}
	r := newTestRegistry()

	a, err := r.Resolve(real)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	b, err := r.Resolve(link)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if a.Canonical() != b.Canonical() {
		t.Fatalf("canonical differs: %q vs %q", a.Canonical(), b.Canonical())
	}
	if r.Compare(a, b) != 0 {
		t.Fatal("expected symlink and target to compare equal")
	}

	// Canon on a canonical path is a no-op.
	before := a.Canonical()
	if err := r.Canon(a); err != nil || a.Canonical() != before {
		t.Fatalf("Canon not stable: %q -> %q (%v)", before, a.Canonical(), err)
	}
}

func TestCompare(t *testing.T) {
	r := newTestRegistry()
	dir := t.TempDir()
	file := filepath.Join(dir, "box")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	local, err := r.Resolve(file)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	remote, err := r.Resolve("fake://host/box")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := r.Compare(local, remote); got >= 0 {
		t.Fatalf("Compare(mbox, imap) = %d, want < 0", got)
	}
	if got := r.Compare(remote, local); got <= 0 {
		t.Fatalf("Compare(imap, mbox) = %d, want > 0", got)
	}
	if got := r.Compare(remote, remote); got != 0 {
		t.Fatalf("Compare(x, x) = %d, want 0", got)
	}
}

func TestCompare_PanicsOnNonCanonical(t *testing.T) {
	r := newTestRegistry()
	a, err := r.Resolve("fake://host/a")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	defer func() {
		v := recover()
		err, ok := v.(error)
		if !ok || !errors.IsContractViolation(err) {
			t.Fatalf("expected contract violation panic, got %v", v)
		}
	}()
	r.Compare(a, mailpath.New("fake://host/b"))
}

func TestParent(t *testing.T) {
	r := newTestRegistry()

	p := mailpath.New("fake://host/a/b")
	p.SetAccount(&mailpath.Account{Host: "host", User: "alice"})
	if err := r.ResolvePath(p, nil); err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if p.Canonical() != "fake://host/a/b#alice" {
		t.Fatalf("Canonical() = %q", p.Canonical())
	}

	parent, err := r.Parent(p, 0)
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if parent.Original() != "fake://host/a" || parent.State() != mailpath.Typed {
		t.Fatalf("parent = %q (%s), want fake://host/a typed", parent.Original(), parent.State())
	}
	if parent.Account() == nil || parent.Account().User != "alice" {
		t.Fatal("parent did not inherit the account")
	}
	parent.Account().User = "bob"
	if p.Account().User != "alice" {
		t.Fatal("parent shares the account with its child")
	}

	if err := r.Canon(parent); err != nil {
		t.Fatalf("Canon failed: %v", err)
	}
	top, err := r.Parent(parent, 0)
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if err := r.Canon(top); err != nil {
		t.Fatalf("Canon failed: %v", err)
	}
	if _, err := r.Parent(top, 0); !errors.Is(err, errors.ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
}

func TestParent_Untyped(t *testing.T) {
	r := newTestRegistry()
	dir := t.TempDir()
	file := filepath.Join(dir, "box")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	p, err := r.Resolve(file)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	parent, err := r.Parent(p, 0)
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if parent.State() != mailpath.Tidied || parent.Kind() != mailpath.Unknown {
		t.Fatalf("parent state %s kind %s, want tidied unknown", parent.State(), parent.Kind())
	}
}

func TestContractViolations(t *testing.T) {
	r := newTestRegistry()
	p := mailpath.New("fake://host/a")

	if _, err := r.Parent(p, 0); !errors.IsContractViolation(err) {
		t.Fatalf("Parent: expected contract violation, got %v", err)
	}
	if _, _, err := r.Pretty(p, mailpath.PrettyContext{}); !errors.IsContractViolation(err) {
		t.Fatalf("Pretty: expected contract violation, got %v", err)
	}
	if _, err := p.Key(); !errors.IsContractViolation(err) {
		t.Fatalf("Key: expected contract violation, got %v", err)
	}
}

func TestPretty(t *testing.T) {
	r := newTestRegistry()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "mail"), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	file := filepath.Join(dir, "mail", "box")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	p, err := r.Resolve(file)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	folder, err := filepath.EvalSymlinks(filepath.Join(dir, "mail"))
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}
	got, ok, err := r.Pretty(p, mailpath.PrettyContext{Folder: folder})
	if err != nil {
		t.Fatalf("Pretty failed: %v", err)
	}
	if !ok || got != "+box" {
		t.Fatalf("Pretty() = %q, %v, want +box, true", got, ok)
	}
}

func TestExpand(t *testing.T) {
	r := mailpath.NewRegistry()
	r.Register(mailpath.Mbox, &fileBackend{})
	r.Register(mailpath.IMAP, &expandingBackend{})

	tests := []struct {
		name string
		in   string
		ctx  mailpath.PrettyContext
		want string
	}{
		{"backend expands", "+box", mailpath.PrettyContext{Folder: "fake://host/INBOX"}, "fake://host/INBOX.box"},
		{"local folder", "+box", mailpath.PrettyContext{Folder: "/home/alice/Mail"}, "/home/alice/Mail/box"},
		{"alternate prefix", "=box", mailpath.PrettyContext{Folder: "/home/alice/Mail"}, "/home/alice/Mail/box"},
		{"home", "~/Mail/box", mailpath.PrettyContext{Folder: "fake://host/INBOX", Home: "/home/alice"}, "/home/alice/Mail/box"},
		{"plain", "/var/mail/alice", mailpath.PrettyContext{Folder: "fake://host/INBOX"}, "/var/mail/alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Expand(tt.in, tt.ctx); got != tt.want {
				t.Fatalf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
