package main

import (
	"bikeprice/cmd/bikeprice/cmd"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
