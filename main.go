package main

import "kindly/internal/cli"

func main() {
	cli.Execute()
}
