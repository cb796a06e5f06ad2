package version

import (
	"fmt"

	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists. Lookup failures are silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/"+Repository+"/releases/tag/v"+version),
	)
}
