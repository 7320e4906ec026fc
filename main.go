package main

import "github.com/Noofbiz/pianoRoll/cmd"

func main() {
	cmd.Execute()
}
