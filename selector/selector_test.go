package selector

import (
	"math/rand"
	"testing"

	"github.com/bilisonic/bilisonic/source"
	. "github.com/smartystreets/goconvey/convey"
)

func audio(q source.Quality, url string) *source.Stream {
	return &source.Stream{Kind: source.KindAudio, Quality: q, URL: url}
}

func video(q source.Quality, url string) *source.Stream {
	return &source.Stream{Kind: source.KindVideo, Quality: q, URL: url}
}

func unknown(url string) *source.Stream {
	return &source.Stream{Kind: source.KindUnknown, URL: url}
}

func TestSelect(t *testing.T) {
	Convey("Select", t, func() {
		Convey("Should fail on an empty set", func() {
			best, err := Select(nil)
			So(err, ShouldEqual, ErrEmptyCandidateSet)
			So(best, ShouldBeNil)
		})

		Convey("Should pick the best audio over any video", func() {
			low := audio(source.Audio64K, "low")
			high := audio(source.Audio192K, "high")
			hd := video(source.Video8K, "video")

			best, err := Select([]*source.Stream{low, high, hd})
			So(err, ShouldBeNil)
			So(best, ShouldEqual, high)
		})

		Convey("Should prefer a worse audio to the best video", func() {
			best, _ := Select([]*source.Stream{video(source.Video8K, "v"), audio(source.Audio64K, "a")})
			So(best.URL, ShouldEqual, "a")
		})

		Convey("Should rank an unlisted quality below every listed one of the same kind", func() {
			odd := audio(source.Quality(1), "odd")
			worst := audio(source.Audio64K, "worst")

			best, _ := Select([]*source.Stream{odd, worst})
			So(best, ShouldEqual, worst)

			best, _ = Select([]*source.Stream{video(source.Quality(3), "odd"), video(source.Video360P, "360")})
			So(best.URL, ShouldEqual, "360")
		})

		Convey("Should still prefer an unlisted audio quality to video", func() {
			best, _ := Select([]*source.Stream{video(source.Video8K, "v"), audio(source.Quality(1), "a")})
			So(best.URL, ShouldEqual, "a")
		})

		Convey("Should return a single unknown candidate", func() {
			only := unknown("durl")
			best, err := Select([]*source.Stream{only})
			So(err, ShouldBeNil)
			So(best, ShouldEqual, only)
		})

		Convey("Should rank unknown after video", func() {
			best, _ := Select([]*source.Stream{unknown("durl"), video(source.Video360P, "v")})
			So(best.URL, ShouldEqual, "v")
		})

		Convey("Should ignore quality on unknown candidates and keep input order", func() {
			first := &source.Stream{Kind: source.KindUnknown, Quality: source.Audio64K, URL: "first"}
			second := &source.Stream{Kind: source.KindUnknown, Quality: source.Audio192K, URL: "second"}
			best, _ := Select([]*source.Stream{first, second})
			So(best, ShouldEqual, first)
		})

		Convey("Should break ties by input order", func() {
			a := audio(source.Audio132K, "a")
			b := audio(source.Audio132K, "b")
			best, _ := Select([]*source.Stream{a, b})
			So(best, ShouldEqual, a)
		})

		Convey("Should be deterministic across runs and agree with Sort", func() {
			r := rand.New(rand.NewSource(42))
			kinds := []source.Kind{source.KindAudio, source.KindVideo, source.KindUnknown}
			qualities := append(append([]source.Quality{}, source.AudioQualities...), source.VideoQualities...)
			qualities = append(qualities, source.Quality(7))

			for i := 0; i < 200; i++ {
				n := 1 + r.Intn(8)
				candidates := make([]*source.Stream, n)
				hasAudio := false
				for j := range candidates {
					k := kinds[r.Intn(len(kinds))]
					hasAudio = hasAudio || k == source.KindAudio
					candidates[j] = &source.Stream{Kind: k, Quality: qualities[r.Intn(len(qualities))]}
				}

				first, err := Select(candidates)
				So(err, ShouldBeNil)
				second, _ := Select(candidates)
				So(second, ShouldEqual, first)
				So(Sort(candidates)[0], ShouldEqual, first)

				if hasAudio {
					So(first.Kind, ShouldEqual, source.KindAudio)
				}
			}
		})
	})
}

func TestSort(t *testing.T) {
	Convey("Sort", t, func() {
		in := []*source.Stream{
			unknown("durl"),
			video(source.Video1080P, "1080"),
			audio(source.Audio132K, "132"),
			video(source.Video4K, "4k"),
			audio(source.AudioHiRes, "hires"),
		}

		out := Sort(in)

		Convey("Should order best first", func() {
			urls := make([]string, len(out))
			for i, s := range out {
				urls[i] = s.URL
			}
			So(urls, ShouldResemble, []string{"hires", "132", "4k", "1080", "durl"})
		})

		Convey("Should not modify the input", func() {
			So(in[0].URL, ShouldEqual, "durl")
		})
	})
}
