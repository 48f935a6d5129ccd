package main

import "github.com/songdna/songdna/cmd"

func main() {
	cmd.Execute()
}
