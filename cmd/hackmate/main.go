package main

import "github.com/akontos/hackmate/internal/cli"

func main() {
	cli.Execute()
}
