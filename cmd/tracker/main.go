package main

import (
	"os"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
