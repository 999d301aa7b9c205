package steam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLibrary() *Library {
	return &Library{
		SteamID:    "76561198000000000",
		TotalGames: 1,
		Games: []Game{
			{
				AppID:           440,
				Name:            "Team Fortress 2",
				PlaytimeForever: 1234,
				Achievements: []Achievement{
					{APIName: "ACH_A", Name: "First Blood"},
					{APIName: "ACH_B", Achieved: 1, UnlockTime: 1600000000},
					{APIName: "ACH_C", Protected: true},
				},
			},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	want := testLibrary()

	require.NoError(t, SaveLibrary(path, want))

	got, err := LoadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The temp file must not survive a successful save.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotRoundTripCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json.gz")
	want := testLibrary()

	require.NoError(t, SaveLibrary(path, want))

	// The file on disk really is gzip.
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	gz.Close()

	got, err := LoadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLibraryOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	first := testLibrary()
	require.NoError(t, SaveLibrary(path, first))

	second := testLibrary()
	second.Games[0].Achievements[0].Achieved = 1
	require.NoError(t, SaveLibrary(path, second))

	got, err := LoadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestLoadLibraryMissing(t *testing.T) {
	_, err := LoadLibrary(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadLibraryCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip at all"), 0o644))

	_, err := LoadLibrary(path)
	assert.Error(t, err)
}
