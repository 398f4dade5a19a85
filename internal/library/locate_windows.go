//go:build windows

package library

import (
	"golang.org/x/sys/windows/registry"
)

var steamRegistryKeys = []string{
	`SOFTWARE\WOW6432Node\Valve\Steam`,
	`SOFTWARE\Valve\Steam`,
}

// platformCandidates reads InstallPath from the Steam registry keys,
// preferring the 64-bit view.
func platformCandidates() []string {
	var out []string
	for _, path := range steamRegistryKeys {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		value, _, err := key.GetStringValue("InstallPath")
		key.Close()
		if err == nil && value != "" {
			out = append(out, value)
		}
	}
	return out
}
