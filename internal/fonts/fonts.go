package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// BaseDirs lists where label fonts are looked up, relative to the working directory.
func BaseDirs() []string {
	return []string{"assets/fonts", "fonts", "/usr/share/fonts/truetype"}
}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf"),
// sorted, with forward slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// fold makes "Inter Regular" and "inter_regular" compare equal.
func fold(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// SearchCandidates returns search terms to try in order.
// "Inter/Inter-Regular.ttf" -> ["Inter/Inter-Regular.ttf", "Inter", "Inter/Inter", "Inter/Inter-Regular"].
func SearchCandidates(pathOrName string) []string {
	pathOrName = strings.TrimSpace(pathOrName)
	seen := map[string]bool{pathOrName: true}
	candidates := []string{pathOrName}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			candidates = append(candidates, s)
		}
	}
	if i := strings.IndexAny(pathOrName, "/\\"); i > 0 {
		add(pathOrName[:i])
	}
	if i := strings.Index(pathOrName, "-"); i > 0 {
		add(pathOrName[:i])
	}
	for _, ext := range Exts {
		if strings.HasSuffix(strings.ToLower(pathOrName), ext) {
			add(pathOrName[:len(pathOrName)-len(ext)])
			break
		}
	}
	return candidates
}

// Find resolves a font by path or fuzzy name. An existing file path is returned as is; otherwise
// each of dirs (BaseDirs when nil) is scanned for a file matching one of SearchCandidates.
// When several files match, one with "regular" in its name wins.
func Find(search string, dirs []string) (string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", os.ErrNotExist
	}
	if fi, err := os.Stat(search); err == nil && !fi.IsDir() {
		return search, nil
	}
	if dirs == nil {
		dirs = BaseDirs()
	}
	for _, term := range SearchCandidates(search) {
		if full, ok := findIn(fold(term), dirs); ok {
			return full, nil
		}
	}
	return "", os.ErrNotExist
}

func findIn(norm string, dirs []string) (string, bool) {
	if norm == "" {
		return "", false
	}
	var matches []string
	for _, base := range dirs {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(fold(rel), norm) {
				matches = append(matches, filepath.Join(base, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, true
		}
	}
	return matches[0], true
}
