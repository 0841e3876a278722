package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/common-nighthawk/go-figure"
)

var activeSpinner *spinner.Spinner

func DrawBanner() {
	figure.NewColorFigure("cloud-doctor", "", "cyan", true).Print()
	fmt.Println()
}

// StartSpinner shows a progress spinner on stderr until StopSpinner
func StartSpinner(suffix string) {
	StopSpinner()
	activeSpinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	activeSpinner.Suffix = " " + suffix
	activeSpinner.Start()
}

func StopSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
		activeSpinner = nil
	}
}
