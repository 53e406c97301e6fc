package main

import "github.com/fame0528/DarkFrame-sub009/internal/adapters/cli"

func main() {
	cli.Execute()
}
