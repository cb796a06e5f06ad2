package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/bilisonic/bilisonic/source"
)

const (
	favPageSize = 20
	favMaxPages = 100
)

// FavouriteMedia is an entry of a favourite folder.
type FavouriteMedia struct {
	Title string `json:"title"`
	BVID  string `json:"bvid"`
	// Page is the number of parts of the video.
	Page int `json:"page"`
}

// FavouritePage is one page of x/v3/fav/resource/list.
type FavouritePage struct {
	Info struct {
		Title      string `json:"title"`
		MediaCount int    `json:"media_count"`
	} `json:"info"`
	Medias  []FavouriteMedia `json:"medias"`
	HasMore bool             `json:"has_more"`
}

// Tracks returns the playable entries. Removed videos come back without a bvid
// and are skipped.
func (p *FavouritePage) Tracks() []*source.Track {
	tracks := make([]*source.Track, 0, len(p.Medias))
	for _, m := range p.Medias {
		if m.Title == "" || !source.ValidBVID(m.BVID) {
			continue
		}
		tracks = append(tracks, &source.Track{Title: m.Title, BVID: m.BVID})
	}
	return tracks
}

// Folder is a whole favourite folder.
type Folder struct {
	Title  string
	Tracks []*source.Track
}

// FavouriteFolder fetches every page of a favourite folder.
// Private folders need a SESSDATA cookie.
func (c *Client) FavouriteFolder(ctx context.Context, mediaID int64) (*Folder, error) {
	folder := &Folder{}

	for pn := 1; pn <= favMaxPages; pn++ {
		query := url.Values{
			"media_id": {strconv.FormatInt(mediaID, 10)},
			"pn":       {strconv.Itoa(pn)},
			"ps":       {strconv.Itoa(favPageSize)},
			"platform": {"web"},
		}

		var page FavouritePage
		if err := c.get(ctx, "/x/v3/fav/resource/list", query, &page); err != nil {
			return nil, fmt.Errorf("favourite folder %d page %d: %w", mediaID, pn, err)
		}

		if folder.Title == "" {
			folder.Title = page.Info.Title
		}
		folder.Tracks = append(folder.Tracks, page.Tracks()...)

		if !page.HasMore {
			break
		}
	}

	c.log.Infof("favourite folder %d: %d tracks", mediaID, len(folder.Tracks))
	return folder, nil
}

// DecodeDump reads a saved x/v3/fav/resource/list response.
func DecodeDump(r io.Reader) ([]*source.Track, error) {
	var dump struct {
		Data *FavouritePage `json:"data"`
	}

	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, err
	}

	if dump.Data == nil {
		return nil, nil
	}

	return dump.Data.Tracks(), nil
}
