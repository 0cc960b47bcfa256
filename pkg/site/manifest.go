package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/pic/pkg/buildinfo"
)

// ManifestFile is written to the output directory.
const ManifestFile = ".pic-manifest.json"

type manifest struct {
	Generator string                   `json:"generator"`
	Target    string                   `json:"target"`
	Pages     map[string]manifestEntry `json:"pages"`
}

type manifestEntry struct {
	Dependencies []string `json:"dependencies,omitempty"`
	Failures     int      `json:"failures,omitempty"`
}

// loadManifest reads the manifest in dir. A missing, unreadable or
// foreign manifest, or one written for another target, yields an empty
// one, which rebuilds everything.
func loadManifest(dir, target string) *manifest {
	m := &manifest{Generator: buildinfo.Generator(), Target: target, Pages: map[string]manifestEntry{}}
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return m
	}
	var old manifest
	if json.Unmarshal(data, &old) != nil || old.Generator != m.Generator || old.Target != m.Target || old.Pages == nil {
		return m
	}
	m.Pages = old.Pages
	return m
}

func (m *manifest) save(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ManifestFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, ManifestFile))
}

// upToDate reports whether out is newer than src, every recorded
// dependency and the configuration. Pages with failed diagrams are
// always rebuilt.
func (m *manifest) upToDate(rel, src, out string, configTime time.Time) bool {
	entry, ok := m.Pages[rel]
	if !ok || entry.Failures > 0 {
		return false
	}
	outInfo, err := os.Stat(out)
	if err != nil {
		return false
	}
	built := outInfo.ModTime()
	if configTime.After(built) {
		return false
	}
	for _, p := range append([]string{src}, entry.Dependencies...) {
		info, err := os.Stat(p)
		if err != nil || info.ModTime().After(built) {
			return false
		}
	}
	return true
}
