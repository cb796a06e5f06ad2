package cmd

import (
	"strings"
	"testing"

	"github.com/bilisonic/bilisonic/config"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestParseValue(t *testing.T) {
	Convey("Given registered fields", t, func() {
		Convey("Integers are parsed", func() {
			v, err := parseValue(config.Default[key.PlayerVolume], []string{"70"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 70)

			_, err = parseValue(config.Default[key.PlayerVolume], []string{"loud"})
			So(err, ShouldNotBeNil)
		})

		Convey("Booleans are parsed", func() {
			v, err := parseValue(config.Default[key.PlayerAutoplay], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)
		})

		Convey("Strings are kept", func() {
			v, err := parseValue(config.Default[key.PlayerBinary], []string{"/usr/bin/mpv"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "/usr/bin/mpv")
		})

		Convey("A missing value is an error", func() {
			_, err := parseValue(config.Default[key.PlayerBinary], nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestClosestKey(t *testing.T) {
	Convey("A misspelled key suggests the registered one", t, func() {
		So(closestKey("player.volum"), ShouldEqual, key.PlayerVolume)
		So(closestKey("player.autoplai"), ShouldEqual, key.PlayerAutoplay)
	})
}

func TestPlaylistPath(t *testing.T) {
	Convey("Given no argument", t, func() {
		Convey("Without a default playlist it fails", func() {
			_, err := playlistPath(nil)
			So(err, ShouldNotBeNil)
		})

		Convey("The configured default is used", func() {
			viper.Set(key.PlaylistDefault, "/tmp/mix.json")
			path, err := playlistPath(nil)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/tmp/mix.json")
		})

		Reset(func() {
			viper.Reset()
		})
	})
}

func TestRenderStreams(t *testing.T) {
	Convey("Given ranked streams", t, func() {
		ranked := []*source.Stream{
			{URL: "https://cdn/a.m4s", Kind: source.KindAudio, Quality: source.Audio192K},
			{URL: "https://cdn/v.m4s", Kind: source.KindVideo, Quality: source.Video1080P},
		}

		Convey("The table lists them in order", func() {
			out := renderStreams(ranked, false)
			So(strings.Index(out, "192K"), ShouldBeLessThan, strings.Index(out, "1080P"))
			So(out, ShouldContainSubstring, "2 candidates")
			So(out, ShouldNotContainSubstring, "https://cdn/a.m4s")
		})

		Convey("URLs are shown on request", func() {
			So(renderStreams(ranked, true), ShouldContainSubstring, "https://cdn/a.m4s")
		})
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Every configuration key is exposed", t, func() {
		vars := envVars()
		So(vars, ShouldContain, "BILISONIC_PLAYER_VOLUME")
		So(vars, ShouldContain, "BILISONIC_CONFIG_PATH")
		So(len(vars), ShouldEqual, len(config.Default)+1)
	})
}
