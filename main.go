package main

import "github.com/datasculpt/datasculpt/cmd"

func main() {
	cmd.Execute()
}
