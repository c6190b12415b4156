package main

import "github.com/kiesman99/swisstile/cmd"

func main() {
	cmd.Execute()
}
