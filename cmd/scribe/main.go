package main

import "github.com/scribe-bot/scribe/internal/cli"

func main() {
	cli.Execute()
}
