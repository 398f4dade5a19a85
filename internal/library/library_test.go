package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singleboostr/boostr/internal/appid"
)

const sampleManifest = `"libraryfolders"
{
	"0"
	{
		"path"		"C:\\Program Files (x86)\\Steam"
		"label"		""
		"contentid"		"1234567890"
		"totalsize"		"0"
		"apps"
		{
			"228980"		"123456"
			"730"		"35000000000"
		}
	}
	"1"
	{
		"path"		"D:\\SteamLibrary"
		"apps"
		{
			"883710"		"4200000000"
			"730"		"1"
			"notanid"		"5"
			"0"		"5"
		}
	}
}
`

func TestReadInstalledIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  appid.Set
	}{
		{
			name:  "two library folders",
			input: sampleManifest,
			want:  appid.Set{228980, 730, 883710},
		},
		{
			name:  "single apps block",
			input: "\"apps\"\n{\n\t\"730\"\t\t\"1\"\n\t\"883710\"\t\t\"2\"\n}\n",
			want:  appid.Set{730, 883710},
		},
		{
			name:  "marker is case insensitive",
			input: "\"APPS\"\n{\n\t\"440\"\t\t\"1\"\n}\n",
			want:  appid.Set{440},
		},
		{
			name:  "no apps block",
			input: "\"libraryfolders\"\n{\n\t\"0\"\n\t{\n\t\t\"path\"\t\t\"/x\"\n\t}\n}\n",
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "windows line endings",
			input: "\"apps\"\r\n{\r\n\t\"570\"\t\t\"9\"\r\n}\r\n",
			want:  appid.Set{570},
		},
		{
			name:  "lines after block close are ignored",
			input: "\"apps\"\n{\n\t\"10\"\t\"1\"\n}\n\"20\"\t\"1\"\n",
			want:  appid.Set{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadInstalledIdentifiers(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "steamapps"), 0o755))
	require.NoError(t, os.WriteFile(ManifestPath(root), []byte(sampleManifest), 0o644))

	ids, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, appid.Set{228980, 730, 883710}, ids)
}

func TestDiscover_MissingManifest(t *testing.T) {
	ids, err := Discover(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, ids)
}

func TestLocateSteam_Explicit(t *testing.T) {
	root := t.TempDir()

	got, err := LocateSteam(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = LocateSteam(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrSteamNotFound)
}
