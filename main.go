package main

import "safetyhub/internal/cli"

func main() {
	cli.Execute()
}
