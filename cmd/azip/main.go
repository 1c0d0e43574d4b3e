package main

import "azimuth-installer/internal/cli"

func main() {
	cli.Execute()
}
