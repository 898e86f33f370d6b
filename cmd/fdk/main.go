package main

import "fdk/cmd/fdk/cmd"

func main() {
	cmd.Execute()
}
