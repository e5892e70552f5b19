package main

import "github.com/junsooki/framepace/cmd/framepace/commands"

func main() {
	commands.Execute()
}
