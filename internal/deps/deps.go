// Package deps reports whether the external programs and directories a run
// needs are usable, for `lipsync check` and for early failures in animate.
package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"lipsync/internal/config"
)

// Requirement defines an external dependency lipsync relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency. Path is the resolved
// executable or directory when Available.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Requirements lists the binaries cfg refers to.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Reads the clip duration",
		},
		{
			Name:        "Recognizer",
			Command:     cfg.Recognizer.Command,
			Description: "Recognizes phones in each utterance",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// CheckDirectories reports whether each configured directory can be written.
// A missing directory counts as available when its nearest existing parent
// is writable, since it is created on first use.
func CheckDirectories(cfg *config.Config) []Status {
	dirs := []struct {
		name, path, description string
	}{
		{"Cache directory", cfg.Paths.CacheDir, "Stores recognized phones"},
		{"Log directory", cfg.Paths.LogDir, "Receives the JSON run log"},
	}
	results := make([]Status, 0, len(dirs))
	for _, dir := range dirs {
		status := Status{
			Name:        dir.name,
			Command:     dir.path,
			Description: dir.description,
		}
		if strings.TrimSpace(dir.path) == "" {
			status.Detail = "path not configured"
			results = append(results, status)
			continue
		}
		existing, err := nearestExisting(dir.path)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		if err := unix.Access(existing, unix.W_OK|unix.X_OK); err != nil {
			status.Detail = fmt.Sprintf("%s is not writable: %v", existing, err)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = existing
		results = append(results, status)
	}
	return results
}

// Missing returns the required entries that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

func nearestExisting(path string) (string, error) {
	current := filepath.Clean(path)
	for {
		info, err := os.Stat(current)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", current)
			}
			return current, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing parent for %s", path)
		}
		current = parent
	}
}
