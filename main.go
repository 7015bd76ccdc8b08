package main

import "github.com/dayuer/tgmux/cmd"

func main() {
	cmd.Execute()
}
