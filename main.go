package main

import "github.com/scenespin/reference-sync/cmd"

func main() {
	cmd.Execute()
}
