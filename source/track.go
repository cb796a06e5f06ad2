package source

import (
	"fmt"
	"regexp"
)

var bvidPattern = regexp.MustCompile(`^BV[0-9A-Za-z]{10}$`)

// Track is a single playlist entry pointing at a Bilibili video (and optionally one of its pages).
type Track struct {
	// Display title.
	Title string `json:"title" jsonschema:"description=Title shown in the playlist."`
	// BV identifier of the video.
	BVID string `json:"bvid" jsonschema:"description=BV identifier of the video,pattern=^BV[0-9A-Za-z]{10}$"`
	// Page number for multi-part videos, starting at 1. Zero means the first page.
	Page int `json:"p,omitempty" jsonschema:"description=Page (part) number starting at 1,minimum=0"`
	// CID of the page. Looked up from the page number when zero.
	CID int64 `json:"cid,omitempty" jsonschema:"description=CID of the page; resolved automatically when omitted,minimum=0"`
}

// String returns the title, falling back to the BV id.
func (t *Track) String() string {
	if t.Title != "" {
		return t.Title
	}
	return t.BVID
}

// Validate reports whether the track can be resolved.
func (t *Track) Validate() error {
	if !bvidPattern.MatchString(t.BVID) {
		return fmt.Errorf("invalid bvid %q", t.BVID)
	}
	if t.Page < 0 || t.CID < 0 {
		return fmt.Errorf("track %s: negative page or cid", t.BVID)
	}
	return nil
}

// ValidBVID reports whether s looks like a BV identifier.
func ValidBVID(s string) bool {
	return bvidPattern.MatchString(s)
}

// WebURL returns the video page of the track on bilibili.com.
func (t *Track) WebURL() string {
	u := "https://www.bilibili.com/video/" + t.BVID
	if t.Page > 1 {
		u += fmt.Sprintf("?p=%d", t.Page)
	}
	return u
}
