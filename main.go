package main

import "github.com/casavoz/casavoz/cmd"

func main() {
	cmd.Execute()
}
