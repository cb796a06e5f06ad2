package network

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bilisonic/bilisonic/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestNew(t *testing.T) {
	Convey("Given network settings", t, func() {
		Reset(viper.Reset)

		Convey("The timeout should come from the config", func() {
			viper.Set(key.NetworkTimeout, 5)
			client := New()
			So(client.Timeout, ShouldEqual, 5*time.Second)

			_, ok := client.Transport.(*http.Transport)
			So(ok, ShouldBeTrue)
		})

		Convey("A missing timeout should fall back to the default", func() {
			So(New().Timeout, ShouldEqual, DefaultTimeout)
		})

		Convey("The fingerprint transport should be used when enabled", func() {
			viper.Set(key.NetworkTLSFingerprint, true)
			_, ok := New().Transport.(*fingerprintTransport)
			So(ok, ShouldBeTrue)
		})

		Convey("The fingerprint transport should pass plain HTTP through", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "ok")
			}))
			defer server.Close()

			viper.Set(key.NetworkTLSFingerprint, true)
			resp, err := New().Get(server.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
