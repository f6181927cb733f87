package main

import "github.com/KaramelBytes/socialstats-cli/cmd"

func main() {
	cmd.Execute()
}
