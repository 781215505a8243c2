package main

import "github.com/dgallion1/docchunk/internal/commands"

func main() {
	commands.Execute()
}
