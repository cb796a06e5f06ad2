// Package playlist reads and writes playlist files: JSON arrays of tracks.
package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/where"
)

// ErrEmpty is returned when a playlist has no tracks.
var ErrEmpty = errors.New("playlist is empty")

// Path resolves a playlist argument. Existing paths are used as is; bare names are
// looked up in the playlists directory, with ".json" appended when missing.
func Path(name string) string {
	if exists, _ := filesystem.API().Exists(name); exists {
		return name
	}

	if filepath.Base(name) != name {
		return name
	}

	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	return filepath.Join(where.Playlists(), name)
}

// Load reads a playlist file. Every track must have a valid bvid.
func Load(path string) ([]*source.Track, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	var tracks []*source.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("parse playlist %s: %w", path, err)
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	for i, track := range tracks {
		if track == nil {
			return nil, fmt.Errorf("%s: track %d is null", path, i)
		}
		if err := track.Validate(); err != nil {
			return nil, fmt.Errorf("%s: track %d: %w", path, i, err)
		}
	}

	return tracks, nil
}

// Save writes tracks as an indented JSON playlist, creating parent directories.
func Save(path string, tracks []*source.Track) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(tracks, "", "  ")
	if err != nil {
		return err
	}

	return filesystem.API().WriteFile(path, append(data, '\n'), 0o644)
}
