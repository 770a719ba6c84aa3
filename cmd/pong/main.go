package main

import "github.com/ftpong/pong-server/internal/cli"

func main() {
	cli.Execute()
}
