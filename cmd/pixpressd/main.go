package main

import "github.com/LeJamon/pixpressd/internal/cli"

func main() {
	cli.Execute()
}
