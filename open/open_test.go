package open

import (
	"testing"

	"github.com/bilisonic/bilisonic/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a video page", t, func() {
		const page = "https://www.bilibili.com/video/BV1xx411c7mD"

		Convey("Linux hands it to xdg-open", func() {
			cmd, ok := command(constant.Linux, page)
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", page})
		})

		Convey("macOS hands it to open", func() {
			cmd, ok := command(constant.Darwin, page)
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"open", page})
		})

		Convey("Unknown systems are rejected", func() {
			_, ok := command("plan9", page)
			So(ok, ShouldBeFalse)
		})
	})
}
