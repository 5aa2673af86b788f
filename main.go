package main

import "codexplain/cmd"

func main() {
	cmd.Execute()
}
