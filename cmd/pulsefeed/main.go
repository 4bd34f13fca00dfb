package main

import "github.com/rcanty/pulsefeed/internal/cli"

func main() {
	cli.Execute()
}
