// Package library discovers locally installed Steam titles by scraping the
// apps blocks of libraryfolders.vdf.
package library

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/singleboostr/boostr/internal/appid"
)

// appsMarker is the key that opens a library folder's installed-app block.
const appsMarker = "apps"

// ErrSteamNotFound is returned when no Steam installation can be located.
var ErrSteamNotFound = errors.New("steam installation not found")

// ReadInstalledIdentifiers returns every positive identifier keyed inside an
// "apps" block. Anything outside such a block, and any malformed line inside
// one, is ignored. Only read errors are returned.
func ReadInstalledIdentifiers(r io.Reader) (appid.Set, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var ids appid.Set
	inApps := false

	for scanner.Scan() {
		line := strings.TrimSpace(strings.ReplaceAll(scanner.Text(), `\\`, `\`))
		if line == "" {
			continue
		}

		if strings.EqualFold(strings.Trim(line, `"`), appsMarker) {
			inApps = true
			continue
		}

		if !inApps {
			continue
		}

		if line == "}" {
			inApps = false
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool { return r == '\t' })
		if len(fields) == 0 {
			continue
		}
		if id, ok := appid.ParseID(strings.Trim(strings.TrimSpace(fields[0]), `"`)); ok {
			ids = ids.Add(id)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan library folders: %w", err)
	}

	return ids, nil
}

// ManifestPath returns the libraryfolders.vdf location under a Steam root.
func ManifestPath(steamPath string) string {
	return filepath.Join(steamPath, "steamapps", "libraryfolders.vdf")
}

// Discover reads the library manifest under steamPath. On any failure it
// returns an empty set together with the error so the caller can report it.
func Discover(steamPath string) (appid.Set, error) {
	path := ManifestPath(steamPath)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	ids, err := ReadInstalledIdentifiers(f)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// LocateSteam resolves the Steam install directory. An explicit path wins;
// otherwise the platform-specific lookup is used.
func LocateSteam(explicit string) (string, error) {
	if explicit != "" {
		if isDir(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("%s: %w", explicit, ErrSteamNotFound)
	}

	for _, candidate := range platformCandidates() {
		if candidate != "" && isDir(candidate) {
			return candidate, nil
		}
	}

	return "", ErrSteamNotFound
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
