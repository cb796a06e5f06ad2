package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}
		So(m.View("body"), ShouldEqual, "body")

		Convey("A notification is shown until its own clear arrives", func() {
			So(m.Update(NotificationMsg("nothing to play")), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "nothing to play")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
			So(m.View("a\nb"), ShouldContainSubstring, "nothing to play")

			m.Update(NotificationMsg("second"))
			m.Update(clearNotificationMsg{seq: 1})
			So(m.Current(), ShouldEqual, "second")

			m.Update(clearNotificationMsg{seq: 2})
			So(m.Current(), ShouldBeEmpty)
		})

		Convey("Notify produces a notification message", func() {
			So(Notify("hi")(), ShouldEqual, NotificationMsg("hi"))
		})
	})
}
