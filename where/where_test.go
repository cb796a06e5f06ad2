package where

import (
	"path/filepath"
	"testing"

	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/tmp/bilisonic-test-config")
			So(Config(), ShouldEqual, "/tmp/bilisonic-test-config")
		})

		Convey("Playlists()", func() {
			path := Playlists()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			So(filepath.Dir(path), ShouldEqual, Config())
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("History() lives next to the config", func() {
			So(filepath.Base(History()), ShouldEqual, "history.json")
		})
	})
}
