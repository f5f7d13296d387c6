// xrlayer inspects and exercises the API layer dispatch engine.
package main

import "github.com/reglet-dev/xrlayer/internal/cli"

func main() {
	cli.Execute()
}
