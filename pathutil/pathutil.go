// Package pathutil holds the string helpers shared by the filesystem-backed
// mailbox kinds: tidying, realpath canonicalization, parent lookup, and the
// folder/home abbreviations used for display.
package pathutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/infodancer/mailpath/errors"
)

const (
	// FolderPrefix marks a path relative to the configured mail folder.
	FolderPrefix = "+"
	// FolderPrefixAlt is the alternative folder marker accepted by Expand.
	FolderPrefixAlt = "="
	// HomePrefix marks a path relative to the home directory.
	HomePrefix = "~"
)

var schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// HasScheme reports whether s starts with a URL scheme such as "imap://".
func HasScheme(s string) bool {
	return schemeRe.MatchString(s)
}

// Tidy removes ".", ".." and repeated separators from a filesystem path
// without touching the filesystem. It is idempotent.
func Tidy(path string) (string, error) {
	if path == "" {
		return "", errors.Malformed(path, errors.New("empty path"))
	}
	if HasScheme(path) {
		return "", errors.Malformed(path, errors.New("not a filesystem path"))
	}
	return filepath.Clean(path), nil
}

// Canon resolves path to an absolute path with every symlink followed.
// A path that does not exist yields errors.ErrMissing.
func Canon(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Malformed(path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Missing(path, err)
		}
		return "", errors.Inaccessible(path, err)
	}
	return real, nil
}

// Parent returns the directory containing path. ok is false at the root.
func Parent(path string) (parent string, ok bool) {
	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", false
	}
	return dir, true
}

// under returns the part of path below base, or false if path is not
// strictly inside base.
func under(path, base string) (string, bool) {
	if base == "" {
		return "", false
	}
	cleanBase := filepath.Clean(base)
	cleanPath := filepath.Clean(path)
	prefix := cleanBase
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(cleanPath, prefix) {
		return "", false
	}
	return cleanPath[len(prefix):], true
}

// AbbrFolder abbreviates path to "+rest" when it lies below folder.
// A path equal to folder is not abbreviated.
func AbbrFolder(path, folder string) (string, bool) {
	rest, ok := under(path, folder)
	if !ok || rest == "" {
		return "", false
	}
	return FolderPrefix + rest, true
}

// AbbrHome abbreviates path to "~/rest", or "~" for home itself.
func AbbrHome(path, home string) (string, bool) {
	if home == "" {
		return "", false
	}
	if filepath.Clean(path) == filepath.Clean(home) {
		return HomePrefix, true
	}
	rest, ok := under(path, home)
	if !ok {
		return "", false
	}
	return HomePrefix + string(filepath.Separator) + rest, true
}

// Pretty tries the folder abbreviation first, then the home abbreviation,
// and otherwise returns path unchanged with abbreviated set to false.
func Pretty(path, folder, home string) (string, bool) {
	if s, ok := AbbrFolder(path, folder); ok {
		return s, true
	}
	if s, ok := AbbrHome(path, home); ok {
		return s, true
	}
	return path, false
}

// Expand reverses Pretty: "+x" and "=x" become folder-relative, "~" and
// "~/x" become home-relative. Folders given as URLs are joined with "/";
// mailpath.Registry.Expand handles URL kinds with other delimiters before
// falling back here. Anything else is returned unchanged.
func Expand(s, folder, home string) string {
	switch {
	case strings.HasPrefix(s, FolderPrefix), strings.HasPrefix(s, FolderPrefixAlt):
		if folder == "" {
			return s
		}
		rest := s[1:]
		if HasScheme(folder) {
			if strings.HasSuffix(folder, "/") {
				return folder + rest
			}
			return folder + "/" + rest
		}
		return filepath.Join(folder, rest)
	case s == HomePrefix:
		if home == "" {
			return s
		}
		return home
	case strings.HasPrefix(s, HomePrefix+"/"):
		if home == "" {
			return s
		}
		return filepath.Join(home, s[2:])
	}
	return s
}
