package main

import "github.com/finquest-app/finquest/internal/cli"

func main() {
	cli.Execute()
}
