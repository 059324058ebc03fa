package main

import "github.com/KaramelBytes/mbtiscope/cmd"

func main() {
	cmd.Execute()
}
