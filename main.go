package main

import "github.com/mj1618/desktop-invoke/cmd"

func main() {
	cmd.Execute()
}
