package compress_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/compress"
	"github.com/infodancer/mailpath/errors"
)

func newRegistry(b *compress.Backend) *mailpath.Registry {
	r := mailpath.NewRegistry()
	r.Register(mailpath.Compressed, b)
	return r
}

// setup builds a mail root holding:
//
//	compress/apple.gz
//	compress/banana.gz/   directory
//	compress/cherry.xz
//	compress/orange.gz
//	compress/symlink -> compress
func setup(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}
	dir := filepath.Join(root, "compress")
	if err := os.MkdirAll(filepath.Join(dir, "banana.gz"), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, name := range []string{"apple.gz", "cherry.xz", "orange.gz"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0x1f, 0x8b}, 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	if err := os.Symlink(dir, filepath.Join(dir, "symlink")); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}
	return root
}

func TestProbe(t *testing.T) {
	root := setup(t)
	b := compress.New(compress.SuffixPredicate(".gz"))

	tests := []struct {
		name string
		file string
		err  error
	}{
		{"accepted", "compress/apple.gz", nil},
		{"directory", "compress/banana.gz", errors.ErrWrongShape},
		{"not accepted", "compress/cherry.xz", errors.ErrNotApplicable},
		{"missing", "compress/damson.gz", errors.ErrMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := b.Probe(filepath.Join(root, tt.file), nil)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("Probe() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil || kind != mailpath.Compressed {
				t.Fatalf("Probe() = %s, %v, want compressed", kind, err)
			}
		})
	}
}

func TestProbe_DefaultSuffixes(t *testing.T) {
	root := setup(t)
	b := compress.New(nil)
	if kind, err := b.Probe(filepath.Join(root, "compress/cherry.xz"), nil); err != nil || kind != mailpath.Compressed {
		t.Fatalf("Probe(cherry.xz) = %s, %v, want compressed", kind, err)
	}
}

func TestProbeAs_Directory(t *testing.T) {
	root := setup(t)
	r := newRegistry(compress.New(nil))

	p := mailpath.New(filepath.Join(root, "compress/banana.gz"))
	if err := r.Tidy(p); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if err := r.ProbeAs(p, mailpath.Compressed, nil); !errors.Is(err, errors.ErrWrongShape) {
		t.Fatalf("expected ErrWrongShape, got %v", err)
	}
}

func TestTidy(t *testing.T) {
	got, err := compress.New(nil).Tidy("/mail/./compress/../compress///apple.gz")
	if err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if got != "/mail/compress/apple.gz" {
		t.Fatalf("Tidy() = %q, want /mail/compress/apple.gz", got)
	}
}

func TestCanon(t *testing.T) {
	root := setup(t)
	r := newRegistry(compress.New(nil))

	p, err := r.Resolve(filepath.Join(root, "compress/symlink/apple.gz"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(root, "compress/apple.gz"); p.Canonical() != want {
		t.Fatalf("Canonical() = %q, want %q", p.Canonical(), want)
	}

	missing := mailpath.NewTyped(filepath.Join(root, "compress/missing"), mailpath.Compressed)
	if err := r.Tidy(missing); err != nil {
		t.Fatalf("Tidy failed: %v", err)
	}
	if err := r.Canon(missing); !errors.Is(err, errors.ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	root := setup(t)
	r := newRegistry(compress.New(nil))

	apple, err := r.Resolve(filepath.Join(root, "compress/apple.gz"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	orange, err := r.Resolve(filepath.Join(root, "compress/orange.gz"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := r.Compare(apple, apple); got != 0 {
		t.Errorf("Compare(apple, apple) = %d", got)
	}
	if got := r.Compare(apple, orange); got != -1 {
		t.Errorf("Compare(apple, orange) = %d", got)
	}
	if got := r.Compare(orange, apple); got != 1 {
		t.Errorf("Compare(orange, apple) = %d", got)
	}
}

func TestParent(t *testing.T) {
	root := setup(t)
	r := newRegistry(compress.New(nil))

	p, err := r.Resolve(filepath.Join(root, "compress/apple.gz"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := r.Parent(p, 0); !errors.Is(err, errors.ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
}

func TestPretty(t *testing.T) {
	root := setup(t)
	r := newRegistry(compress.New(nil))

	for _, in := range []string{"compress/apple.gz", "compress/symlink/apple.gz"} {
		p, err := r.Resolve(filepath.Join(root, in))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		got, ok, err := r.Pretty(p, mailpath.PrettyContext{Folder: root})
		if err != nil {
			t.Fatalf("Pretty failed: %v", err)
		}
		if !ok || got != "+compress/apple.gz" {
			t.Errorf("Pretty(%s) = %q, %v, want +compress/apple.gz", in, got, ok)
		}
	}
}
