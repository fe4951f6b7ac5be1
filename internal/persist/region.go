// Package persist holds the counters that must survive a soft restart but
// not a power cycle.
//
// The region is a small fixed-shape struct stored as a JSON file on tmpfs
// (default under /run): a daemon or device restart leaves tmpfs intact,
// while power loss clears it since tmpfs lives in RAM. First boot after
// power-on is detected by the file's absence, which doubles as the
// initialize-once guard.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Region is the reboot-survivable counter set.
type Region struct {
	// PingFailures counts restarts triggered by consecutive failed
	// reachability probes.
	PingFailures uint32 `json:"ping_failures"`

	// Disconnects counts restarts triggered by a down link.
	Disconnects uint32 `json:"disconnects"`

	// PoweredBaseMs accumulates uptime across restarts so reported total
	// powered time is continuous.
	PoweredBaseMs uint64 `json:"powered_base_ms"`
}

// Store reads and writes the region file.
type Store struct {
	path string
}

// NewStore creates a Store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted region. When the file does not exist (first
// boot after power-on) it writes and returns a zeroed region and reports
// firstBoot=true. The region is zeroed exactly once per power cycle.
func (s *Store) Load() (Region, bool, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		var zero Region
		if err := s.Save(zero); err != nil {
			return zero, true, fmt.Errorf("initialize region: %w", err)
		}
		return zero, true, nil
	}
	if err != nil {
		return Region{}, false, fmt.Errorf("read region: %w", err)
	}

	var r Region
	if err := json.Unmarshal(raw, &r); err != nil {
		// A corrupt region is treated like a power cycle: start over.
		var zero Region
		if saveErr := s.Save(zero); saveErr != nil {
			return zero, true, fmt.Errorf("reinitialize region: %w", saveErr)
		}
		return zero, true, nil
	}
	return r, false, nil
}

// Save writes the region atomically (write temp file, rename).
func (s *Store) Save(r Region) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create region dir: %w", err)
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode region: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write region: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit region: %w", err)
	}
	return nil
}
