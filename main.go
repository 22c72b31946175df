package main

import "github.com/vedsharma/resterx/cmd"

func main() {
	cmd.Execute()
}
