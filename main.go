package main

import "timebridge/cmd"

func main() {
	cmd.Execute()
}
