package mailpath

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/infodancer/mailpath/errors"
	"github.com/infodancer/mailpath/pathutil"
)

// Registry maps mailbox kinds to backends and dispatches path operations.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	backends map[Kind]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[Kind]Backend)}
}

// DefaultRegistry is filled by the init() functions of the backend packages.
var DefaultRegistry = NewRegistry()

// Register adds a backend for kind. One backend may serve several kinds.
// It panics if called with Unknown, a nil backend,
// or if the kind is already registered.
func (r *Registry) Register(kind Kind, b Backend) {
	if kind == Unknown {
		panic("mailpath: Register called with Unknown kind")
	}
	if b == nil {
		panic("mailpath: Register called with nil backend")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[kind]; exists {
		panic("mailpath: Register called twice for " + kind.String())
	}
	r.backends[kind] = b
}

// Backend returns the backend registered for kind.
func (r *Registry) Backend(kind Kind) (Backend, error) {
	r.mu.RLock()
	b, ok := r.backends[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, errors.ErrBackendNotRegistered)
	}
	return b, nil
}

// Kinds returns the registered kinds in kind order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.backends))
	for k := range r.backends {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Unregistered returns the known kinds that have no backend.
func (r *Registry) Unregistered() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []Kind
	for _, k := range Kinds() {
		if _, ok := r.backends[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// probeOrder lists each distinct backend once: non-local backends in kind
// order, then local backends in kind order.
func (r *Registry) probeOrder() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var remote, local []Backend
	seen := make(map[Backend]bool)
	for _, k := range Kinds() {
		b, ok := r.backends[k]
		if !ok || seen[b] {
			continue
		}
		seen[b] = true
		if b.IsLocal() {
			local = append(local, b)
		} else {
			remote = append(remote, b)
		}
	}
	return append(remote, local...)
}

// Tidy normalizes p.Original. A path of known kind is tidied by its backend
// and becomes Typed. Otherwise backends are tried in probe order and the
// first one that does not answer ErrNotApplicable wins; the path becomes
// Tidied. Tidying an already tidied path does nothing.
func (r *Registry) Tidy(p *Path) error {
	if p.state.IsTidied() {
		return nil
	}

	if p.kind != Unknown {
		b, err := r.Backend(p.kind)
		if err != nil {
			return err
		}
		s, err := b.Tidy(p.orig)
		if err != nil {
			return err
		}
		p.orig = s
		p.state = Typed
		return nil
	}

	for _, b := range r.probeOrder() {
		s, err := b.Tidy(p.orig)
		if errors.Is(err, errors.ErrNotApplicable) {
			continue
		}
		if err != nil {
			return err
		}
		p.orig = s
		p.state = Tidied
		return nil
	}
	return errors.Malformed(p.orig, errors.New("no backend accepts this path"))
}

// Probe determines the kind of a tidied path. fi may be nil, in which case
// the path is stat'ed (following symlinks) if a local backend needs it.
// Probing a Typed path does nothing.
func (r *Registry) Probe(p *Path, fi fs.FileInfo) error {
	if p.state == Fresh {
		return errors.ContractViolation("Probe", p.orig, "path is not tidied")
	}
	if p.state.IsTyped() {
		return nil
	}

	var (
		statErr       error
		stated        = fi != nil
		sawLocal      bool
		allWrongShape = true
	)
	for _, b := range r.probeOrder() {
		if b.IsLocal() {
			if !stated {
				fi, statErr = os.Stat(p.orig)
				stated = true
			}
			if statErr != nil {
				break
			}
		}

		kind, err := b.Probe(p.orig, localInfo(b, fi))
		if err == nil {
			r.setKind(p, kind)
			return nil
		}
		if b.IsLocal() {
			sawLocal = true
			if !errors.Is(err, errors.ErrWrongShape) {
				allWrongShape = false
			}
		}
		if !errors.Is(err, errors.ErrNotApplicable) && !errors.Is(err, errors.ErrWrongShape) {
			slog.Debug("probe rejected path",
				slog.String("path", p.orig),
				slog.String("error", err.Error()))
		}
	}

	switch {
	case statErr != nil && os.IsNotExist(statErr):
		return errors.Missing(p.orig, statErr)
	case statErr != nil:
		return errors.Inaccessible(p.orig, statErr)
	case sawLocal && allWrongShape:
		return errors.WrongShape(p.orig, "a mailbox")
	}
	return errors.Malformed(p.orig, errors.New("unrecognized mailbox"))
}

// ProbeAs probes p against the backend for kind only. The backend may
// answer with a sibling kind it also serves, e.g. MMDF for Mbox.
func (r *Registry) ProbeAs(p *Path, kind Kind, fi fs.FileInfo) error {
	if p.state == Fresh {
		return errors.ContractViolation("ProbeAs", p.orig, "path is not tidied")
	}
	if p.state.IsTyped() {
		return nil
	}

	b, err := r.Backend(kind)
	if err != nil {
		return err
	}
	if b.IsLocal() && fi == nil {
		fi, err = os.Stat(p.orig)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.Missing(p.orig, err)
			}
			return errors.Inaccessible(p.orig, err)
		}
	}

	got, err := b.Probe(p.orig, localInfo(b, fi))
	if err != nil {
		return err
	}
	r.setKind(p, got)
	return nil
}

func localInfo(b Backend, fi fs.FileInfo) fs.FileInfo {
	if b.IsLocal() {
		return fi
	}
	return nil
}

func (r *Registry) setKind(p *Path, kind Kind) {
	slog.Debug("probed mailbox",
		slog.String("path", p.orig),
		slog.String("kind", kind.String()))
	p.kind = kind
	p.state = Typed
}

// Canon computes the canonical string of a typed path. Canonicalizing a
// Canonical path does nothing; a failure leaves the path unchanged.
func (r *Registry) Canon(p *Path) error {
	if p.state.IsCanonical() {
		return nil
	}
	if !p.state.IsTyped() {
		return errors.ContractViolation("Canon", p.orig, "path is not typed")
	}

	b, err := r.Backend(p.kind)
	if err != nil {
		return err
	}
	s, err := b.Canon(p)
	if err != nil {
		return err
	}
	if s == "" {
		return errors.ContractViolation("Canon", p.orig, p.kind.String()+" backend returned an empty canonical path")
	}
	p.canon = s
	p.state = Canonical
	return nil
}

// Compare orders two canonical paths. Paths of different kinds are ordered
// by kind; paths of the same kind by their backend.
// It panics with an error wrapping errors.ErrContractViolation if either
// path is not canonical.
func (r *Registry) Compare(a, b *Path) int {
	if !a.state.IsCanonical() {
		panic(errors.ContractViolation("Compare", a.orig, "path is not canonical"))
	}
	if !b.state.IsCanonical() {
		panic(errors.ContractViolation("Compare", b.orig, "path is not canonical"))
	}
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	be, err := r.Backend(a.kind)
	if err != nil {
		panic(err)
	}
	return be.Compare(a, b)
}

// Parent returns a new path for the parent mailbox of a canonical path.
// The result is Typed when the backend knows the parent's kind, Tidied
// otherwise, and carries a copy of p's account.
func (r *Registry) Parent(p *Path, delim rune) (*Path, error) {
	if !p.state.IsCanonical() {
		return nil, errors.ContractViolation("Parent", p.orig, "path is not canonical")
	}

	b, err := r.Backend(p.kind)
	if err != nil {
		return nil, err
	}
	s, kind, err := b.Parent(p, delim)
	if err != nil {
		return nil, err
	}

	parent := NewTyped(s, kind)
	if p.data != nil {
		parent.data = p.data.clone()
	}
	if err := r.Tidy(parent); err != nil {
		return nil, fmt.Errorf("parent of %s: %w", p.canon, err)
	}
	return parent, nil
}

// Pretty abbreviates a canonical path for display.
func (r *Registry) Pretty(p *Path, ctx PrettyContext) (string, bool, error) {
	if !p.state.IsCanonical() {
		return "", false, errors.ContractViolation("Pretty", p.orig, "path is not canonical")
	}

	b, err := r.Backend(p.kind)
	if err != nil {
		return "", false, err
	}
	return b.Pretty(p, ctx)
}

// Expand undoes Pretty: it turns an abbreviation such as "+name" or "~/name"
// back into a path that resolves to the abbreviated mailbox. Backends that
// implement Expander are asked first, in probe order; anything they decline
// goes to pathutil.Expand.
func (r *Registry) Expand(s string, ctx PrettyContext) string {
	for _, b := range r.probeOrder() {
		e, ok := b.(Expander)
		if !ok {
			continue
		}
		if out, ok := e.Expand(s, ctx); ok {
			return out
		}
	}
	return pathutil.Expand(s, ctx.Folder, ctx.Home)
}

// ResolvePath runs Tidy, Probe and Canon on p. Attach an account with
// SetAccount first when resolving a remote path.
func (r *Registry) ResolvePath(p *Path, fi fs.FileInfo) error {
	if err := r.Tidy(p); err != nil {
		return err
	}
	if err := r.Probe(p, fi); err != nil {
		return err
	}
	if err := r.Canon(p); err != nil {
		return err
	}
	slog.Debug("resolved mailbox",
		slog.String("path", p.orig),
		slog.String("kind", p.kind.String()),
		slog.String("canonical", p.canon))
	return nil
}

// Resolve builds a path from raw and resolves it to Canonical.
func (r *Registry) Resolve(raw string) (*Path, error) {
	p := New(raw)
	if err := r.ResolvePath(p, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// Register adds a backend to DefaultRegistry.
func Register(kind Kind, b Backend) { DefaultRegistry.Register(kind, b) }

// RegisteredKinds returns the kinds registered with DefaultRegistry.
func RegisteredKinds() []Kind { return DefaultRegistry.Kinds() }

// Tidy calls DefaultRegistry.Tidy.
func Tidy(p *Path) error { return DefaultRegistry.Tidy(p) }

// Probe calls DefaultRegistry.Probe.
func Probe(p *Path, fi fs.FileInfo) error { return DefaultRegistry.Probe(p, fi) }

// ProbeAs calls DefaultRegistry.ProbeAs.
func ProbeAs(p *Path, kind Kind, fi fs.FileInfo) error { return DefaultRegistry.ProbeAs(p, kind, fi) }

// Canon calls DefaultRegistry.Canon.
func Canon(p *Path) error { return DefaultRegistry.Canon(p) }

// Compare calls DefaultRegistry.Compare.
func Compare(a, b *Path) int { return DefaultRegistry.Compare(a, b) }

// Parent calls DefaultRegistry.Parent.
func Parent(p *Path, delim rune) (*Path, error) { return DefaultRegistry.Parent(p, delim) }

// Pretty calls DefaultRegistry.Pretty.
func Pretty(p *Path, ctx PrettyContext) (string, bool, error) {
	return DefaultRegistry.Pretty(p, ctx)
}

// Expand calls DefaultRegistry.Expand.
func Expand(s string, ctx PrettyContext) string { return DefaultRegistry.Expand(s, ctx) }

// Resolve calls DefaultRegistry.Resolve.
func Resolve(raw string) (*Path, error) { return DefaultRegistry.Resolve(raw) }
