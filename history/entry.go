package history

import (
	"fmt"
	"time"

	"github.com/bilisonic/bilisonic/source"
)

// Entry is a track the user has played.
type Entry struct {
	Title      string    `json:"title"`
	BVID       string    `json:"bvid"`
	Page       int       `json:"p,omitempty"`
	Plays      int       `json:"plays"`
	LastPlayed time.Time `json:"last_played"`
	// Finished is true when the last play reached the end of the stream.
	Finished bool `json:"finished"`
}

func (e *Entry) encode() string {
	return entryKey(e.BVID, e.Page)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s (%dx)", e.Title, e.Plays)
}

// Track converts the entry back into a playlist track.
func (e *Entry) Track() *source.Track {
	return &source.Track{Title: e.Title, BVID: e.BVID, Page: e.Page}
}

func entryKey(bvid string, page int) string {
	if page <= 1 {
		return bvid
	}
	return fmt.Sprintf("%s?p=%d", bvid, page)
}
