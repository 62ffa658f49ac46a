package main

import "github.com/mouse-blink/pyintroduce/cmd"

func main() {
	cmd.Execute()
}
