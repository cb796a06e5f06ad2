package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTrack(t *testing.T) {
	Convey("Track", t, func() {
		track := &Track{Title: "Battle City", BVID: "BV1xx411c7mD"}

		Convey("String representation", func() {
			So(track.String(), ShouldEqual, "Battle City")
			track.Title = ""
			So(track.String(), ShouldEqual, "BV1xx411c7mD")
		})

		Convey("WebURL", func() {
			So(track.WebURL(), ShouldEqual, "https://www.bilibili.com/video/BV1xx411c7mD")
			track.Page = 3
			So(track.WebURL(), ShouldEqual, "https://www.bilibili.com/video/BV1xx411c7mD?p=3")
		})

		Convey("Validate", func() {
			So(track.Validate(), ShouldBeNil)

			track.BVID = "av170001"
			So(track.Validate(), ShouldNotBeNil)

			track.BVID = "BV1xx411c7mD"
			track.Page = -1
			So(track.Validate(), ShouldNotBeNil)
		})
	})
}
