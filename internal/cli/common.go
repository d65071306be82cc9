package cli

import (
	"fmt"
	"net/url"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/compress"
	"github.com/infodancer/mailpath/imap"
	"github.com/infodancer/mailpath/internal/config"
	"github.com/infodancer/mailpath/maildir"
	"github.com/infodancer/mailpath/mbox"
	"github.com/infodancer/mailpath/nntp"
	"github.com/infodancer/mailpath/notmuch"
	"github.com/infodancer/mailpath/pathutil"
	"github.com/infodancer/mailpath/pop"
	"github.com/infodancer/mailpath/remote"
)

// newRegistry builds a registry with every backend, configured from cfg.
func newRegistry(cfg *config.Config) *mailpath.Registry {
	r := mailpath.NewRegistry()

	mb := mbox.New()
	r.Register(mailpath.Mbox, mb)
	r.Register(mailpath.MMDF, mb)

	md := maildir.New()
	r.Register(mailpath.Maildir, md)
	r.Register(mailpath.MH, md)

	r.Register(mailpath.Compressed, compress.New(compress.SuffixPredicate(cfg.Compress.Suffixes...)))

	imapProto := imap.Protocol
	imapProto.Delimiter = cfg.IMAPDelim()
	r.Register(mailpath.IMAP, remote.New(imapProto))

	r.Register(mailpath.POP, pop.New())

	nntpProto := nntp.Protocol
	nntpProto.Delimiter = cfg.NNTPDelim()
	r.Register(mailpath.NNTP, remote.New(nntpProto))

	r.Register(mailpath.Notmuch, notmuch.New())
	return r
}

// expand applies folder and home shortcuts to raw. An empty raw names the
// spool mailbox.
func (a *app) expand(raw string) (string, error) {
	if raw == "" {
		if a.cfg.Spool == "" {
			return "", fmt.Errorf("no mailbox given and no spool configured")
		}
		raw = a.cfg.Spool
	}
	return a.reg.Expand(raw, a.prettyContext()), nil
}

// tidy builds a tidied path from raw and attaches the configured account
// for its host, if any.
func (a *app) tidy(raw string) (*mailpath.Path, error) {
	s, err := a.expand(raw)
	if err != nil {
		return nil, err
	}
	p := mailpath.New(s)
	if err := a.reg.Tidy(p); err != nil {
		return nil, err
	}
	a.attachAccount(p)
	return p, nil
}

func (a *app) attachAccount(p *mailpath.Path) {
	if !pathutil.HasScheme(p.Original()) {
		return
	}
	u, err := url.Parse(p.Original())
	if err != nil {
		return
	}
	if acct := a.cfg.AccountFor(u.Hostname()); acct != nil {
		p.SetAccount(acct)
	}
}

// resolve tidies, probes and canonicalizes raw.
func (a *app) resolve(raw string) (*mailpath.Path, error) {
	p, err := a.tidy(raw)
	if err != nil {
		return nil, err
	}
	if err := a.reg.ResolvePath(p, nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *app) prettyContext() mailpath.PrettyContext {
	return mailpath.PrettyContext{Folder: a.cfg.Folder, Home: a.cfg.Home}
}

// pathInfo is the JSON form of a path.
type pathInfo struct {
	Original  string `json:"original"`
	Canonical string `json:"canonical,omitempty"`
	Kind      string `json:"kind"`
	State     string `json:"state"`
	Pretty    string `json:"pretty,omitempty"`
}

func (a *app) info(p *mailpath.Path) pathInfo {
	info := pathInfo{
		Original:  p.Original(),
		Canonical: p.Canonical(),
		Kind:      p.Kind().String(),
		State:     p.State().String(),
	}
	if p.State().IsCanonical() {
		if s, ok, err := a.reg.Pretty(p, a.prettyContext()); err == nil && ok {
			info.Pretty = s
		}
	}
	return info
}
