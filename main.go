package main

import "github.com/iksnae/cursor-workspace/cmd"

func main() {
	cmd.Execute()
}
