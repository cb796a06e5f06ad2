// Package history records recently played tracks.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// mu guards cacher, whose Get hands out the cached map itself.
var mu sync.Mutex

var now = time.Now

// Get returns a copy of every recorded entry keyed by track.
func Get() (map[string]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return nil, err
	}

	return lo.MapValues(saved, func(e *Entry, _ string) *Entry {
		clone := *e
		return &clone
	}), nil
}

func get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Recent returns entries, most recently played first.
func Recent() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastPlayed.After(entries[j].LastPlayed)
	})
	return entries, nil
}

// Save records a play of track. Only the most recent history.limit entries are kept.
func Save(track *source.Track, finished bool) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	k := entryKey(track.BVID, track.Page)
	entry, ok := saved[k]
	if !ok {
		entry = &Entry{BVID: track.BVID, Page: track.Page}
		saved[k] = entry
	}

	entry.Title = track.String()
	entry.Plays++
	entry.LastPlayed = now()
	entry.Finished = finished

	trim(saved, viper.GetInt(key.HistoryLimit))

	return cacher.Set(saved)
}

// trim drops the oldest entries beyond limit. A limit of zero or less keeps everything.
func trim(saved map[string]*Entry, limit int) {
	if limit <= 0 || len(saved) <= limit {
		return
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastPlayed.After(entries[j].LastPlayed)
	})

	for _, e := range entries[limit:] {
		delete(saved, e.encode())
	}
}

// Remove deletes an entry.
func Remove(entry *Entry) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	delete(saved, entry.encode())
	return cacher.Set(saved)
}
