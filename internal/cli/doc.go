// Package cli implements the cablesection command-line interface.
//
// # Commands
//
//   - render: draw a design as SVG, PNG, PDF, JSON or DOT
//   - model: extrude a design to a GLB model
//   - batch: render every design in a directory in parallel
//   - layup: show the layup table
//   - colors: show the core color codes or resolve a color reference
//   - links: show how layers reference each other
//   - inspect: browse a design layer by layer
//   - serve: run the HTTP generation service
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli
