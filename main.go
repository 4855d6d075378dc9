package main

import (
	_ "embed"
	"os"
	"strings"

	"picimport/cmd"
)

//go:embed VERSION
var embeddedVersion string

func main() {
	if v := strings.TrimSpace(embeddedVersion); v != "" && cmd.Version == "dev" {
		cmd.Version = v
		cmd.ApplyVersion()
	}
	os.Exit(cmd.Main(os.Stderr))
}
