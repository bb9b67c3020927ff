package main

import "github.com/maxvaer/shockprobe/cmd"

func main() {
	cmd.Execute()
}
