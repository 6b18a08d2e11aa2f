// Command rmw plays RankMyWord from the terminal: the daily prompts, a single
// scored answer, or a same-device duel.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

const releaseVersion = "0.1.0"

func main() {
	if err := logger.InitWithWriter(os.Stderr, false); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	cobra.CheckErr(newCmd(&Config{}, buildService).Execute())
}
