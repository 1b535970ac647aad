// Command kroneus serves the KRONEUS marketing site and its demo tooling.
package main

import "github.com/kroneus/kroneus-site/internal/cli"

func main() {
	cli.Execute()
}
