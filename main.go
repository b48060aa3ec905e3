package main

import "aegisc/cmd"

func main() {
	cmd.Execute()
}
