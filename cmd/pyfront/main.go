package main

import (
	"os"

	"pyfront/cmd/pyfront/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
