package session

import (
	"testing"
	"time"

	"github.com/bilisonic/bilisonic/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestConfigFromViper(t *testing.T) {
	Convey("Given player settings", t, func() {
		viper.Set(key.PlayerReconnect, false)
		viper.Set(key.PlayerVolume, 60)
		viper.Set(key.PlayerSettleDelay, 250)

		Convey("ConfigFromViper should carry them into the session config", func() {
			headers := map[string]string{"Referer": "https://www.bilibili.com/"}
			cfg := ConfigFromViper(headers)

			So(cfg.Headers, ShouldResemble, headers)
			So(cfg.Options.NoVideo, ShouldBeTrue)
			So(cfg.Options.NoSubtitles, ShouldBeTrue)
			So(cfg.Options.AutoExit, ShouldBeTrue)
			So(cfg.Options.Reconnect, ShouldBeFalse)
			So(cfg.Options.Volume, ShouldEqual, 60)
			So(cfg.SettleDelay, ShouldEqual, 250*time.Millisecond)
			So(cfg.Log, ShouldNotBeNil)
		})

		Reset(func() {
			viper.Reset()
		})
	})
}
