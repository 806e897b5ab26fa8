package main

import "github.com/KaramelBytes/metamon-cli/cmd"

func main() {
	cmd.Execute()
}
