package main

import (
	"os"

	"github.com/MrEthical07/goOnboard/cmd/onboard-demo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
