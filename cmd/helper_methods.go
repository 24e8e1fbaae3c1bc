package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/smartwatermelon/claude-wrapper/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when
// not in verbose or debug mode. Returns the spinner and a cleanup
// function that must run before any further terminal output (and, for
// launches, before the exec handoff).
//
// FinalMSG values do not need trailing newlines; cleanup normalizes them.
func startSpinner(message string, verboseFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("failed to set spinner color: %v", err)
	}

	active := !verboseFlag && !debug
	if active {
		s.Start()
		// Discard stray log output while the spinner owns the line.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if active {
			log.SetOutput(os.Stdout)
		}
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}
		if active {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}
