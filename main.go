package main

import "github.com/inmzhang/leaky/cmd"

func main() {
	cmd.Execute()
}
