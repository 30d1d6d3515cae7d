package main

import (
	"os"

	"github.com/cwbudde/go-smali/cmd/smali/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
