package main

import "pngfit/cmd"

const version = "0.1.0"

func main() {
	cmd.Execute(version)
}
