package main

import "webmap/cmd"

func main() {
	cmd.Execute()
}
