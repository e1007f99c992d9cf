package main

import (
	"os"

	"kama_address_book/cmd/kama_address_book/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
