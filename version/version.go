// Package version checks for newer releases of bilisonic.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/network"
	"github.com/bilisonic/bilisonic/util"
	"github.com/bilisonic/bilisonic/where"
	"github.com/metafates/gache"
)

// Repository is the GitHub repository releases are published to.
const Repository = "bilisonic/bilisonic"

// checkTimeout bounds the release lookup so a slow network never delays help output.
const checkTimeout = 3 * time.Second

var releasesURL = "https://api.github.com/repos/" + Repository + "/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version, without the "v" prefix.
// Lookups are cached for two days.
func Latest() (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	ver, err = fetchLatest(ctx, network.New())
	if err != nil {
		return "", err
	}

	_ = versionCacher.Set(ver)
	return ver, nil
}

func fetchLatest(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}
