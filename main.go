package main

import "discord-uploader/cmd"

func main() {
	cmd.Execute()
}
