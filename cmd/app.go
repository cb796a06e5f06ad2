package cmd

import (
	"github.com/bilisonic/bilisonic/auth"
	"github.com/bilisonic/bilisonic/bilibili"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/player"
	"github.com/bilisonic/bilisonic/session"
	"github.com/spf13/viper"
)

func newEngine() *player.MPV {
	return player.NewMPV(viper.GetString(key.PlayerBinary), log.For("mpv"))
}

// newClient creates an API client, logged in when a SESSDATA is stored.
func newClient() *bilibili.Client {
	return bilibili.New(bilibili.Options{
		Cookie: auth.Cookie(),
		Log:    log.For("bilibili"),
	})
}

func newSession(engine player.Engine, client *bilibili.Client) *session.Session {
	return session.New(engine, session.ConfigFromViper(client.Headers()))
}
