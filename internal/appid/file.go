package appid

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoIdentifiers is returned when a file parses but yields nothing usable.
var ErrNoIdentifiers = errors.New("no valid identifiers")

// indexDocument is the structured form of the identifier file.
type indexDocument struct {
	IDs []string `yaml:"ids"`
}

// flexibleIDs accepts both numbers and strings in the ids list.
type flexibleIDs []string

func (f *flexibleIDs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			out = append(out, string(r))
			continue
		}
		out = append(out, n.String())
	}
	*f = out
	return nil
}

// LoadFile reads the backing identifier file (supports plain text, .yaml,
// .yml, and .json). A missing file yields an error wrapping fs.ErrNotExist.
func LoadFile(path string, report func(token string)) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identifier file: %w", err)
	}

	// Detect format by file extension
	var tokens []string
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		var doc struct {
			IDs flexibleIDs `json:"ids"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse identifier JSON: %w", err)
		}
		tokens = doc.IDs
	case ".yaml", ".yml":
		var doc indexDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse identifier YAML: %w", err)
		}
		tokens = doc.IDs
	default:
		ids, ok := Parse(strings.TrimPrefix(string(data), "\ufeff"), report)
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, ErrNoIdentifiers)
		}
		return ids, nil
	}

	var ids Set
	for _, token := range tokens {
		id, valid := ParseID(token)
		if !valid {
			if report != nil {
				report(token)
			}
			continue
		}
		ids = ids.Add(id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoIdentifiers)
	}

	return ids, nil
}

// Strings renders the set as decimal strings.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, id := range s {
		out[i] = strconv.FormatUint(uint64(id), 10)
	}
	return out
}
