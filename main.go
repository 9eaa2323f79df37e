package main

import "github.com/grvbrk/vidplay/cmd"

func main() {
	cmd.Execute()
}
