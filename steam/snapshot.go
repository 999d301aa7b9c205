package steam

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// SaveLibrary writes the library snapshot as indented JSON, gzip-compressed
// when the filename ends in .gz (large libraries produce snapshots in the
// tens of megabytes). The write goes through a temp file and rename so an
// interrupted checkpoint never truncates the previous snapshot.
func SaveLibrary(path string, lib *Library) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err = enc.Encode(lib)

	if gz != nil {
		if cerr := gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write snapshot: %w", err)
	}

	return os.Rename(tmp, path)
}

// LoadLibrary reads a snapshot written by SaveLibrary.
func LoadLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open compressed snapshot: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	lib := &Library{}
	if err := json.NewDecoder(r).Decode(lib); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return lib, nil
}
