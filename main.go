package main

import "reactionkg/cmd"

func main() {
	cmd.Execute()
}
