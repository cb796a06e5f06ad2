package history

import (
	"sync"
	"testing"
	"time"

	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(cacher.Set(map[string]*Entry{}), ShouldBeNil)

		clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		now = func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}
		Reset(func() {
			now = time.Now
			viper.Reset()
		})

		track := &source.Track{Title: "Bad Apple!!", BVID: "BV1xx411c7mD"}

		Convey("When saving a track twice", func() {
			So(Save(track, false), ShouldBeNil)
			So(Save(track, true), ShouldBeNil)

			Convey("Then it is recorded once with two plays", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(len(saved), ShouldEqual, 1)

				entry := saved["BV1xx411c7mD"]
				So(entry.Title, ShouldEqual, "Bad Apple!!")
				So(entry.Plays, ShouldEqual, 2)
				So(entry.Finished, ShouldBeTrue)
				So(entry.Track().BVID, ShouldEqual, track.BVID)
			})

			Convey("And it can be removed", func() {
				saved, _ := Get()
				So(Remove(saved["BV1xx411c7mD"]), ShouldBeNil)

				saved, _ = Get()
				So(saved, ShouldBeEmpty)
			})
		})

		Convey("Pages are recorded separately", func() {
			So(Save(track, true), ShouldBeNil)
			So(Save(&source.Track{BVID: "BV1xx411c7mD", Page: 2}, true), ShouldBeNil)

			saved, _ := Get()
			So(saved, ShouldContainKey, "BV1xx411c7mD?p=2")
			So(saved["BV1xx411c7mD?p=2"].Title, ShouldEqual, "BV1xx411c7mD")
		})

		Convey("Only the most recent entries are kept", func() {
			viper.Set(key.HistoryLimit, 2)

			So(Save(&source.Track{Title: "a", BVID: "BV1xx411c7mA"}, true), ShouldBeNil)
			So(Save(&source.Track{Title: "b", BVID: "BV1xx411c7mB"}, true), ShouldBeNil)
			So(Save(&source.Track{Title: "c", BVID: "BV1xx411c7mC"}, true), ShouldBeNil)

			recent, err := Recent()
			So(err, ShouldBeNil)
			So(len(recent), ShouldEqual, 2)
			So(recent[0].Title, ShouldEqual, "c")
			So(recent[1].Title, ShouldEqual, "b")
		})

		Convey("Saves from several goroutines are all recorded", func() {
			var wg sync.WaitGroup
			for page := 1; page <= 8; page++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_ = Save(&source.Track{BVID: "BV1xx411c7mD", Page: page}, true)
				}()
				go func() {
					defer wg.Done()
					_, _ = Recent()
				}()
			}
			wg.Wait()

			recent, err := Recent()
			So(err, ShouldBeNil)
			So(len(recent), ShouldEqual, 8)
		})

		Convey("Returned entries are copies", func() {
			So(Save(track, false), ShouldBeNil)

			saved, _ := Get()
			saved["BV1xx411c7mD"].Plays = 100

			again, _ := Get()
			So(again["BV1xx411c7mD"].Plays, ShouldEqual, 1)
		})
	})
}
