package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Rank", t, func() {
		Convey("Should order audio qualities worst to best", func() {
			So(Rank(KindAudio, Audio64K), ShouldEqual, 0)
			So(Rank(KindAudio, Audio192K), ShouldEqual, len(AudioQualities)-1)
			So(Rank(KindAudio, Audio132K), ShouldBeLessThan, Rank(KindAudio, AudioHiRes))
		})

		Convey("Should order video qualities worst to best", func() {
			So(Rank(KindVideo, Video360P), ShouldEqual, 0)
			So(Rank(KindVideo, Video8K), ShouldEqual, len(VideoQualities)-1)
		})

		Convey("Should return -1 for codes outside the kind's table", func() {
			So(Rank(KindAudio, Video1080P), ShouldEqual, -1)
			So(Rank(KindVideo, Audio192K), ShouldEqual, -1)
			So(Rank(KindAudio, Quality(1)), ShouldEqual, -1)
		})

		Convey("Should return -1 for the unknown kind", func() {
			So(Rank(KindUnknown, Audio192K), ShouldEqual, -1)
		})
	})
}

func TestStreamString(t *testing.T) {
	Convey("Stream String", t, func() {
		So((&Stream{Kind: KindAudio, Quality: Audio192K}).String(), ShouldEqual, "audio 192K")
		So((&Stream{Kind: KindVideo, Quality: Quality(9999)}).String(), ShouldEqual, "video q9999")
		So((&Stream{Kind: KindUnknown, Quality: Video8K}).String(), ShouldEqual, "unknown")
	})
}
