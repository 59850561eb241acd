package main

import (
	"os"

	"github.com/Dreamvillians/tradeville-journal/cmd/tradejournal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
