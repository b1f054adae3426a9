package main

import "satbrush/cmd"

func main() {
	cmd.Execute()
}
