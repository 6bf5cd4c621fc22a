package main

import "github.com/kochi-labs/episode-companion/cmd"

func main() {
	cmd.Execute()
}
