// Yuki is a Thai voice assistant. It listens on the microphone, runs
// commands addressed to it by name and answers everything else with a
// local or cloud LLM.
package main

import "os"

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	os.Exit(Execute())
}
