package mailpath

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/infodancer/mailpath/errors"
)

// BackendData is the per-path payload a backend may need.
// Only types in this package implement it.
type BackendData interface {
	clone() BackendData
	backendData()
}

// Account carries the connection context of a remote mailbox. It is opaque
// to everything but the remote backends, which use it to fill in the parts
// of a URL the user left out.
type Account struct {
	Host  string
	User  string
	Login string
	Port  int
}

var _ BackendData = (*Account)(nil)

func (a *Account) clone() BackendData {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (*Account) backendData() {}

// Path is a mailbox location moving through resolution.
// A Path is not safe for concurrent mutation.
type Path struct {
	orig  string
	canon string
	kind  Kind
	state State
	data  BackendData
}

// New returns a Fresh path of unknown kind.
func New(raw string) *Path {
	return &Path{orig: raw}
}

// NewTyped returns a Fresh path whose kind is already known, e.g. from
// configuration. Tidying it moves it straight to Typed.
func NewTyped(raw string, kind Kind) *Path {
	return &Path{orig: raw, kind: kind}
}

// Clone returns an independent copy of p.
func (p *Path) Clone() *Path {
	c := *p
	if p.data != nil {
		c.data = p.data.clone()
	}
	return &c
}

// Original returns the path as given, or as rewritten by Tidy.
func (p *Path) Original() string { return p.orig }

// Canonical returns the canonical string, or "" before Canon succeeds.
func (p *Path) Canonical() string { return p.canon }

// Kind returns the mailbox kind, Unknown until the path has been typed.
func (p *Path) Kind() Kind { return p.kind }

// State returns the resolution state.
func (p *Path) State() State { return p.state }

// Data returns the backend payload, which may be nil.
func (p *Path) Data() BackendData { return p.data }

// Account returns the attached account, or nil.
func (p *Path) Account() *Account {
	a, _ := p.data.(*Account)
	return a
}

// SetAccount attaches remote account context. Call it before Canon for the
// account to take part in canonicalization.
func (p *Path) SetAccount(a *Account) {
	if a == nil {
		p.data = nil
		return
	}
	p.data = a
}

// String returns the canonical form when known, the original otherwise.
func (p *Path) String() string {
	if p.state == Canonical {
		return p.canon
	}
	return p.orig
}

// Key returns a stable identity for the mailbox: the hex blake2b-256 digest
// of its kind and canonical string. It suits use as a cache file name.
func (p *Path) Key() (string, error) {
	if p.state != Canonical {
		return "", errors.ContractViolation("Key", p.orig, "path is not canonical")
	}
	sum := blake2b.Sum256([]byte(p.kind.String() + "\x00" + p.canon))
	return hex.EncodeToString(sum[:]), nil
}
