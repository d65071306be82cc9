package config

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/infodancer/mailpath/imap"
	"github.com/infodancer/mailpath/nntp"
	"github.com/infodancer/mailpath/pathutil"
	"github.com/infodancer/mailpath/pop"
)

// LogLevels are the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Problem is one rejected setting, named by its config key.
type Problem struct {
	Key  string
	Got  any
	Want string
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s = %q: want %s", p.Key, fmt.Sprint(p.Got), p.Want)
}

// Problems is every setting Validate rejected, in config file order.
type Problems []Problem

func (ps Problems) Error() string {
	msgs := make([]string, len(ps))
	for i, p := range ps {
		msgs[i] = p.Error()
	}
	return strings.Join(msgs, "; ")
}

// Keys returns the keys of the rejected settings.
func (ps Problems) Keys() []string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key
	}
	return keys
}

// folderSchemes are the URL schemes a mail folder may use.
func folderSchemes() []string {
	schemes := []string{"notmuch"}
	for _, ports := range []map[string]int{imap.Protocol.Ports, pop.Protocol.Ports, nntp.Protocol.Ports} {
		for s := range ports {
			schemes = append(schemes, s)
		}
	}
	slices.Sort(schemes)
	return schemes
}

// Validate returns every rejected setting, or nil.
func (c *Config) Validate() Problems {
	var ps Problems

	if folder := c.Folder; pathutil.HasScheme(folder) {
		scheme, _, _ := strings.Cut(folder, "://")
		if schemes := folderSchemes(); !slices.Contains(schemes, strings.ToLower(scheme)) {
			ps = append(ps, Problem{"folder", folder, "a path or a " + strings.Join(schemes, ", ") + " url"})
		}
	}
	if c.LogLevel != "" && !slices.Contains(LogLevels, c.LogLevel) {
		ps = append(ps, Problem{"log_level", c.LogLevel, "one of " + strings.Join(LogLevels, ", ")})
	}
	ps = append(ps, checkDelimiter("imap_delimiter", c.IMAPDelimiter)...)
	ps = append(ps, checkDelimiter("nntp_delimiter", c.NNTPDelimiter)...)

	for i, s := range c.Compress.Suffixes {
		if len(s) < 2 || s[0] != '.' {
			ps = append(ps, Problem{fmt.Sprintf("compress.suffixes[%d]", i), s, `an extension starting with "."`})
		}
	}

	seen := make(map[string]bool)
	for i, a := range c.Accounts {
		key := fmt.Sprintf("accounts[%d]", i)
		host := strings.ToLower(a.Host)
		switch {
		case host == "":
			ps = append(ps, Problem{key + ".host", a.Host, "a host name"})
		case seen[host]:
			ps = append(ps, Problem{key + ".host", a.Host, "a host not already configured"})
		}
		seen[host] = true
		if a.Port < 0 || a.Port > 65535 {
			ps = append(ps, Problem{key + ".port", a.Port, "a port between 0 and 65535"})
		}
	}

	if len(ps) == 0 {
		return nil
	}
	return ps
}

func checkDelimiter(key, value string) Problems {
	if utf8.RuneCountInString(value) != 1 || value == string(utf8.RuneError) {
		return Problems{{key, value, "a single character"}}
	}
	return nil
}
