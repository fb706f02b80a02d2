package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string     server base URL
//	-f string     session database file
//	-t duration   request timeout (e.g. "5s")
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.SessionDBPath, "f", cfg.SessionDBPath, "session database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
