package version

import (
	"fmt"
)

// Name is the program name reported to users and MCP clients.
const Name = "servicelog"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a human-friendly version string that surfaces build metadata.
func Info() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, Commit, Date)
}
