package main

import "github.com/lukman83/baydeals/cmd"

func main() {
	cmd.Execute()
}
