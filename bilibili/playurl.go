package bilibili

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bilisonic/bilisonic/source"
	"github.com/samber/lo"
)

// fnval flags: DASH, HDR, 4K, Dolby audio, Dolby Vision, 8K and AV1.
const fnval = 16 | 64 | 128 | 256 | 512 | 1024 | 2048

type dashMedia struct {
	ID        int    `json:"id"`
	BaseURL   string `json:"baseUrl"`
	BaseURL2  string `json:"base_url"`
	Bandwidth int    `json:"bandwidth"`
	Codecs    string `json:"codecs"`
}

func (m *dashMedia) url() string {
	if m.BaseURL != "" {
		return m.BaseURL
	}
	return m.BaseURL2
}

type playURL struct {
	Quality int `json:"quality"`
	Durl    []struct {
		URL  string `json:"url"`
		Size int64  `json:"size"`
	} `json:"durl"`
	Dash *struct {
		Video []dashMedia `json:"video"`
		Audio []dashMedia `json:"audio"`
		Dolby *struct {
			Audio []dashMedia `json:"audio"`
		} `json:"dolby"`
		Flac *struct {
			Audio *dashMedia `json:"audio"`
		} `json:"flac"`
	} `json:"dash"`
}

// streams converts the response into tagged candidates.
func (p *playURL) streams() []*source.Stream {
	var streams []*source.Stream

	add := func(kind source.Kind, m *dashMedia) {
		if m == nil || m.url() == "" {
			return
		}
		streams = append(streams, &source.Stream{
			Kind:      kind,
			Quality:   source.Quality(m.ID),
			URL:       m.url(),
			Codec:     m.Codecs,
			Bandwidth: m.Bandwidth,
		})
	}

	if dash := p.Dash; dash != nil {
		for i := range dash.Audio {
			add(source.KindAudio, &dash.Audio[i])
		}
		if dash.Dolby != nil {
			for i := range dash.Dolby.Audio {
				add(source.KindAudio, &dash.Dolby.Audio[i])
			}
		}
		if dash.Flac != nil {
			add(source.KindAudio, dash.Flac.Audio)
		}
		for i := range dash.Video {
			add(source.KindVideo, &dash.Video[i])
		}
	}

	// progressive (muxed) streams carry no kind-specific quality
	for _, d := range p.Durl {
		if d.URL == "" {
			continue
		}
		streams = append(streams, &source.Stream{
			Kind:    source.KindUnknown,
			Quality: source.Quality(p.Quality),
			URL:     d.URL,
		})
	}

	return lo.UniqBy(streams, func(s *source.Stream) string {
		return s.URL
	})
}

// Resolve returns every candidate stream of the track's page.
func (c *Client) Resolve(ctx context.Context, track *source.Track) ([]*source.Stream, error) {
	if err := track.Validate(); err != nil {
		return nil, err
	}

	cid := track.CID
	if cid == 0 {
		view, err := c.View(ctx, track.BVID)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", track, err)
		}

		cid, err = view.PageCID(track.Page)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", track, err)
		}
	}

	query := url.Values{
		"bvid":  {track.BVID},
		"cid":   {strconv.FormatInt(cid, 10)},
		"fnval": {strconv.Itoa(fnval)},
		"fnver": {"0"},
		"fourk": {"1"},
	}

	var data playURL
	if err := c.get(ctx, "/x/player/playurl", query, &data); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("resolve %s: %w: %w", track, source.ErrNoStreamAvailable, err)
		}
		return nil, fmt.Errorf("resolve %s: %w", track, err)
	}

	streams := data.streams()
	if len(streams) == 0 {
		return nil, fmt.Errorf("resolve %s: %w", track, source.ErrNoStreamAvailable)
	}

	c.log.Infof("resolved %s: %d candidate streams", track.BVID, len(streams))
	return streams, nil
}
