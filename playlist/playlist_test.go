package playlist

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/samber/lo"
)

func init() {
	filesystem.SetMemMapFs()
}

func write(path, content string) {
	lo.Must0(filesystem.API().WriteFile(path, []byte(content), 0o644))
}

func TestLoadSave(t *testing.T) {
	Convey("Given a playlist file", t, func() {
		path := "/music/touhou.json"
		write(path, `[
			{"title": "Bad Apple!!", "bvid": "BV1xx411c7mD"},
			{"title": "Night of Nights", "bvid": "BV1Gs411P7Ej", "p": 2, "cid": 1002}
		]`)

		Convey("Load should read every track", func() {
			tracks, err := Load(path)
			So(err, ShouldBeNil)
			So(len(tracks), ShouldEqual, 2)
			So(tracks[1].Page, ShouldEqual, 2)
			So(tracks[1].CID, ShouldEqual, 1002)
		})

		Convey("Save should round trip", func() {
			tracks, _ := Load(path)
			out := "/out/dir/copy.json"
			So(Save(out, tracks), ShouldBeNil)

			again, err := Load(out)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, tracks)
		})
	})

	Convey("Load should reject bad playlists", t, func() {
		write("/bad/empty.json", `[]`)
		_, err := Load("/bad/empty.json")
		So(errors.Is(err, ErrEmpty), ShouldBeTrue)

		write("/bad/bvid.json", `[{"title":"x","bvid":"av170001"}]`)
		_, err = Load("/bad/bvid.json")
		So(err, ShouldNotBeNil)

		write("/bad/syntax.json", `{`)
		_, err = Load("/bad/syntax.json")
		So(err, ShouldNotBeNil)

		_, err = Load("/bad/missing.json")
		So(err, ShouldNotBeNil)
	})
}

func TestPath(t *testing.T) {
	Convey("Path", t, func() {
		write("/somewhere/list.json", `[]`)
		So(Path("/somewhere/list.json"), ShouldEqual, "/somewhere/list.json")
		So(Path("favourites"), ShouldEqual, filepath.Join(where.Playlists(), "favourites.json"))
		So(Path("favourites.json"), ShouldEqual, filepath.Join(where.Playlists(), "favourites.json"))
	})
}

func TestImportDumps(t *testing.T) {
	Convey("Given a directory of favourite folder dumps", t, func() {
		dir := "/dumps"
		write(filepath.Join(dir, "2.json"), `{"code":0,"data":{"medias":[{"title":"Night of Nights","bvid":"BV1Gs411P7Ej"}]}}`)
		write(filepath.Join(dir, "1.json"), `{"code":0,"data":{"medias":[{"title":"Bad Apple!!","bvid":"BV1xx411c7mD"},{"bvid":"BV1xx411c7mD"}]}}`)
		write(filepath.Join(dir, "broken.json"), `{"code":`)
		write(filepath.Join(dir, "notes.txt"), `ignored`)

		tracks, failed, err := ImportDumps(dir, log.Discard())

		Convey("Tracks are merged in file name order", func() {
			So(err, ShouldBeNil)
			So(lo.Map(tracks, func(t *source.Track, _ int) string { return t.Title }), ShouldResemble, []string{"Bad Apple!!", "Night of Nights"})
		})

		Convey("Broken files are reported", func() {
			So(len(failed), ShouldEqual, 1)
			So(failed[0].File, ShouldEqual, "broken.json")
		})
	})

	Convey("A missing directory is an error", t, func() {
		_, _, err := ImportDumps("/nope", log.Discard())
		So(err, ShouldNotBeNil)
	})
}

func TestFilter(t *testing.T) {
	Convey("Filter", t, func() {
		tracks := []*source.Track{
			{Title: "Bad Apple!!", BVID: "BV1xx411c7mD"},
			{Title: "Night of Nights", BVID: "BV1Gs411P7Ej"},
			{Title: "Native Faith", BVID: "BV1Gs411P7Ek"},
		}

		So(Filter(tracks, ""), ShouldResemble, tracks)

		found := Filter(tracks, "night")
		So(len(found), ShouldEqual, 1)
		So(found[0].Title, ShouldEqual, "Night of Nights")

		So(Filter(tracks, "zzz"), ShouldBeEmpty)
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema should describe an array of tracks", t, func() {
		data, err := json.Marshal(Schema())
		So(err, ShouldBeNil)

		var decoded map[string]any
		So(json.Unmarshal(data, &decoded), ShouldBeNil)
		So(decoded["type"], ShouldEqual, "array")
		So(string(data), ShouldContainSubstring, "bvid")
		So(string(data), ShouldContainSubstring, "^BV[0-9A-Za-z]{10}$")
	})
}
