package main

import "github.com/notargets/condreg/cmd"

func main() {
	cmd.Execute()
}
