package main

import "github.com/kiesman99/quilt/cmd"

func main() {
	cmd.Execute()
}
