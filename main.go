package main

import "skynet/cmd"

func main() {
	cmd.Execute()
}
