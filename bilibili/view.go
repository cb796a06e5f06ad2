package bilibili

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bilisonic/bilisonic/source"
)

// Page is one part of a multi-part video.
type Page struct {
	CID      int64  `json:"cid"`
	Page     int    `json:"page"`
	Part     string `json:"part"`
	Duration int    `json:"duration"`
}

// View is the subset of x/web-interface/view the player needs.
type View struct {
	BVID     string `json:"bvid"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Owner    struct {
		Name string `json:"name"`
	} `json:"owner"`
	Pages []Page `json:"pages"`
}

// PageCID returns the CID of page p (1-based, 0 meaning the first page).
func (v *View) PageCID(p int) (int64, error) {
	if len(v.Pages) == 0 {
		return 0, fmt.Errorf("%s has no pages", v.BVID)
	}

	if p <= 0 {
		return v.Pages[0].CID, nil
	}

	for _, page := range v.Pages {
		if page.Page == p {
			return page.CID, nil
		}
	}

	return 0, fmt.Errorf("%s has no page %d", v.BVID, p)
}

// View returns video information, served from the on-disk cache when fresh.
func (c *Client) View(ctx context.Context, bvid string) (*View, error) {
	if !source.ValidBVID(bvid) {
		return nil, fmt.Errorf("invalid bvid %q", bvid)
	}

	if view, ok := c.cachedView(bvid); ok {
		return view, nil
	}

	var view View
	if err := c.get(ctx, "/x/web-interface/view", url.Values{"bvid": {bvid}}, &view); err != nil {
		return nil, err
	}

	if err := c.storeView(bvid, &view); err != nil {
		c.log.WithError(err).Warn("writing view cache")
	}

	return &view, nil
}

// cachedView looks bvid up in the view cache.
func (c *Client) cachedView(bvid string) (*View, bool) {
	c.viewsMu.Lock()
	defer c.viewsMu.Unlock()

	cached, expired, err := c.views.Get()
	if err != nil {
		c.log.WithError(err).Warn("reading view cache")
		return nil, false
	}
	if expired || cached == nil {
		return nil, false
	}

	view, ok := cached[bvid]
	return view, ok
}

// storeView adds view to the cache, starting a fresh one when it expired.
func (c *Client) storeView(bvid string, view *View) error {
	c.viewsMu.Lock()
	defer c.viewsMu.Unlock()

	cached, expired, err := c.views.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string]*View)
	}

	cached[bvid] = view
	return c.views.Set(cached)
}
