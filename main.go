// Package main is the entry point for bilisonic.
package main

import (
	"github.com/bilisonic/bilisonic/cmd"
	"github.com/bilisonic/bilisonic/config"
	"github.com/bilisonic/bilisonic/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
