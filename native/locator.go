package native

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// The two binary identities the locator probes for: the self-contained
// steam_api shim and the full client library.
const (
	flatLibName     = "steam_api64.dll"
	clientLibName64 = "steamclient64.dll"
	clientLibName32 = "steamclient.dll"
)

// Subfolder holding bundled copies of the shim library.
const bundleDir = "DLLs"

// Library is exclusively owned access to a loaded native module. Once
// loaded it lives for the rest of the process; the Steam runtime is a
// process-wide singleton and unloading it is never safe.
type Library struct {
	Path string

	handle uintptr
}

// Locator finds and loads the Steam native library from a ranked set of
// candidate locations. The winning path and handle are cached for the life
// of the process so repeated sessions reuse one load.
type Locator struct {
	// InstallDir resolves the Steam installation directory. Optional; when
	// nil only the bundle locations are probed.
	InstallDir func() (string, error)

	cached *Library
}

// Locate probes the candidates in order and returns the first that exists
// and loads. Returns ErrLibraryNotFound when nothing does, which is fatal
// for the whole batch: there is no native runtime to talk to.
func (l *Locator) Locate() (*Library, error) {
	if l.cached != nil {
		return l.cached, nil
	}

	for _, candidate := range l.candidates() {
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			log.Debugf("Candidate not found: %s", candidate)
			continue
		}

		lib, err := loadLibrary(candidate)
		if err != nil {
			log.WithError(err).Warnf("Failed to load %s", candidate)
			continue
		}

		log.Infof("Loaded Steam library: %s", candidate)
		l.cached = lib
		return lib, nil
	}

	return nil, ErrLibraryNotFound
}

// candidates returns the ranked list of library paths to probe: bundle
// folders under the working directory and next to the executable (the shim
// library), then the Steam installation itself (the full client library).
func (l *Locator) candidates() []string {
	var paths []string

	bundle := func(dir string) {
		paths = append(paths,
			filepath.Join(dir, bundleDir, "win64", flatLibName),
			filepath.Join(dir, bundleDir, flatLibName),
			filepath.Join(dir, flatLibName),
		)
	}

	if wd, err := os.Getwd(); err == nil {
		bundle(wd)
	}

	if exe, err := os.Executable(); err == nil {
		bundle(filepath.Dir(exe))
	}

	if l.InstallDir != nil {
		if dir, err := l.InstallDir(); err == nil {
			paths = append(paths,
				filepath.Join(dir, clientLibName64),
				filepath.Join(dir, clientLibName32),
			)
		} else {
			log.WithError(err).Debug("No Steam installation directory to probe")
		}
	}

	return paths
}
