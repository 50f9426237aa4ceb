// Command bano republishes social-media search results as per-language Atom feeds.
package main

import (
	"log"
	"os"

	"github.com/kyrias/bano/cmd"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
