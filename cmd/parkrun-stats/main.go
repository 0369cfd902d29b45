package main

import "github.com/pfrederiksen/parkrun-stats/internal/cli"

func main() {
	cli.Execute()
}
