package bilibili

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bilisonic/bilisonic/source"
)

var bvidInText = regexp.MustCompile(`BV[0-9A-Za-z]{10}`)

// ParseTrack builds a track from a BV id or a video URL such as
// https://www.bilibili.com/video/BV1xx411c7mD?p=2.
func ParseTrack(input string) (*source.Track, error) {
	input = strings.TrimSpace(input)

	bvid := bvidInText.FindString(input)
	if bvid == "" {
		return nil, fmt.Errorf("no BV id in %q", input)
	}

	track := &source.Track{BVID: bvid}

	if u, err := url.Parse(input); err == nil && u.Scheme != "" {
		if p, err := strconv.Atoi(u.Query().Get("p")); err == nil && p > 0 {
			track.Page = p
		}
	}

	return track, track.Validate()
}
