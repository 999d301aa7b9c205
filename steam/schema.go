package steam

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Steam caches a binary stats schema per app under appcache/stats. The
// format is an undocumented key-value blob; rather than really parse it,
// scan for the achievement's api name and a nearby "permission" key whose
// value marks the achievement as server-granted. Any read or match failure
// defaults to "not protected" - this probe is best effort by design.

// How far past the api name to look for the permission key. Schema records
// are small; this comfortably covers one.
const permissionWindow = 256

var permissionKey = []byte("permission\x00")

func schemaPath(installDir string, appID uint32) string {
	return filepath.Join(installDir, "appcache", "stats", fmt.Sprintf("UserGameStatsSchema_%d.bin", appID))
}

// probeProtected reports whether the schema blob marks the named
// achievement as protected.
func probeProtected(schema []byte, apiName string) bool {
	if apiName == "" {
		return false
	}

	i := bytes.Index(schema, append([]byte(apiName), 0))
	if i < 0 {
		return false
	}

	window := schema[i:min(i+permissionWindow, len(schema))]
	j := bytes.Index(window, permissionKey)
	if j < 0 {
		return false
	}

	k := j + len(permissionKey)
	if k+4 > len(window) {
		return false
	}

	// Little-endian int32. Bits 0 and 1 restrict who may grant the
	// achievement (official game servers / whitelisted only).
	perm := binary.LittleEndian.Uint32(window[k:])
	return perm&3 != 0
}

// MarkProtected annotates the library's locked achievements using each
// app's cached schema. Apps with no cached schema are left untouched.
func MarkProtected(lib *Library, installDir string) {
	if installDir == "" {
		return
	}

	marked := 0
	for gi := range lib.Games {
		game := &lib.Games[gi]

		schema, err := os.ReadFile(schemaPath(installDir, game.AppID))
		if err != nil {
			log.Debugf("No cached stats schema for %d", game.AppID)
			continue
		}

		for ai := range game.Achievements {
			a := &game.Achievements[ai]
			if a.Locked() && probeProtected(schema, a.APIName) {
				a.Protected = true
				marked++
			}
		}
	}

	if marked > 0 {
		log.Infof("Marked %d achievements as protected", marked)
	}
}
