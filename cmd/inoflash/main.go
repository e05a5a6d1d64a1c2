package main

import "inoflash/internal/cli"

func main() {
	cli.Execute()
}
