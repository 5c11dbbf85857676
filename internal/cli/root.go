// Package cli implements the pgpdump command-line interface.
//
// This package provides commands for dumping OpenPGP packet streams as text,
// JSON or YAML, browsing a dump interactively, and managing the output cache.
// The CLI is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - dump: Print the packet structure of a file or standard input
//   - browse: Step through the top-level packets in a terminal UI
//   - cache: Inspect and clear the dump output cache
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Defaults for the dump flags can be set in a TOML file, by default
// $XDG_CONFIG_HOME/pgpdump/config.toml. Flags given on the command line
// always win over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per decoded packet.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli
