package main

import "github.com/Tiliavir/rileva/cmd"

func main() {
	cmd.Execute()
}
