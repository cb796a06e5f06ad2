package session

import (
	"time"

	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/player"
	"github.com/spf13/viper"
)

// ConfigFromViper builds a Config from the user's settings.
func ConfigFromViper(headers map[string]string) Config {
	opts := player.AudioOnly()
	opts.Reconnect = viper.GetBool(key.PlayerReconnect)
	opts.Volume = viper.GetInt(key.PlayerVolume)

	return Config{
		Headers:     headers,
		Options:     opts,
		SettleDelay: time.Duration(viper.GetInt(key.PlayerSettleDelay)) * time.Millisecond,
		Log:         log.For("session"),
	}
}
