//go:build !cgo

package main

import (
	"flag"
	"fmt"
	"os"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("AgroDM %s (%s) %s\n", version, commit, date)
		return
	}

	fmt.Fprintln(os.Stderr, "AgroDM needs the desktop build (cgo/raylib enabled). Use cmd/climate and cmd/agrodm-web for headless work.")
	os.Exit(1)
}
