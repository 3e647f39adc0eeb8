package main

import "github.com/encodeous/spantree/cmd"

func main() {
	cmd.Execute()
}
