package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestSessData(t *testing.T) {
	Convey("Given a mock keyring", t, func() {
		keyring.MockInit()

		Convey("Nothing stored yields no cookie", func() {
			_, err := GetSessData()
			So(err, ShouldEqual, keyring.ErrNotFound)
			So(Cookie(), ShouldBeEmpty)
		})

		Convey("A stored value is returned trimmed and as a cookie", func() {
			So(SetSessData("  abc%2C123  "), ShouldBeNil)

			value, err := GetSessData()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "abc%2C123")
			So(Cookie(), ShouldEqual, "SESSDATA=abc%2C123")

			Convey("And can be deleted", func() {
				So(DeleteSessData(), ShouldBeNil)
				So(Cookie(), ShouldBeEmpty)
			})
		})

		Convey("Blank values are rejected", func() {
			So(SetSessData("   "), ShouldEqual, ErrEmptyToken)
		})
	})
}
