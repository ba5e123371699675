package main

import "github.com/n0rdy/widaconsole/cmd"

func main() {
	cmd.Execute()
}
