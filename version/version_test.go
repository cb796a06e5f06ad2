package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare orders semantic versions", t, func() {
		cmp, err := Compare("0.2.0", "0.1.9")
		So(err, ShouldBeNil)
		So(cmp, ShouldEqual, 1)

		cmp, err = Compare("v1.0.0", "1.0.0")
		So(err, ShouldBeNil)
		So(cmp, ShouldEqual, 0)

		cmp, err = Compare("1.0.0", "1.0.1")
		So(err, ShouldBeNil)
		So(cmp, ShouldEqual, -1)

		_, err = Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestFetchLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		tag := `{"tag_name": "v0.3.1"}`
		status := http.StatusOK

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(tag))
		}))

		original := releasesURL
		releasesURL = server.URL

		Convey("The tag is returned without its prefix", func() {
			ver, err := fetchLatest(context.Background(), server.Client())
			So(err, ShouldBeNil)
			So(ver, ShouldEqual, "0.3.1")
		})

		Convey("An empty tag is an error", func() {
			tag = `{}`
			_, err := fetchLatest(context.Background(), server.Client())
			So(err, ShouldNotBeNil)
		})

		Convey("A failing endpoint is an error", func() {
			status = http.StatusForbidden
			_, err := fetchLatest(context.Background(), server.Client())
			So(err, ShouldNotBeNil)
		})

		Reset(func() {
			releasesURL = original
			server.Close()
		})
	})
}
