// startpage is a terminal start page with a search box, a search-engine picker and display settings
package main

import (
	"os"

	"github.com/iiroan/startpage/cmd/startpage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
