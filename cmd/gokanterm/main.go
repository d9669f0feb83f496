// Command gokanterm solves relational programs over symbolic terms.
package main

import "github.com/gitrdm/gokanterm/internal/cli"

func main() {
	cli.Execute()
}
