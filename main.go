package main

import "github.com/slikemedia/publishbot/cmd"

func main() {
	cmd.Execute()
}
