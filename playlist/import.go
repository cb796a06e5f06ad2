package playlist

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bilisonic/bilisonic/bilibili"
	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/util"
	"github.com/sirupsen/logrus"
)

// ImportError records a dump file that could not be read.
type ImportError struct {
	File string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ImportDumps merges every saved favourite folder response (*.json) in dir, in
// file name order. Unreadable files are skipped and reported.
func ImportDumps(dir string, log logrus.FieldLogger) ([]*source.Track, []*ImportError, error) {
	infos, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".json") {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)

	var (
		tracks []*source.Track
		failed []*ImportError
	)

	for _, name := range names {
		found, err := importDump(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).Warnf("skipping %s", name)
			failed = append(failed, &ImportError{File: name, Err: err})
			continue
		}

		tracks = append(tracks, found...)
	}

	return tracks, failed, nil
}

func importDump(path string) ([]*source.Track, error) {
	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(file.Close)

	return bilibili.DecodeDump(file)
}
