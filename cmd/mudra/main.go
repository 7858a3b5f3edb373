// Command mudra turns hand gestures seen by a webcam into key presses.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
