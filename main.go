package main

import "powermap/core/cmd"

func main() {
	cmd.Execute()
}
