package main

import "github.com/job-radar/radar/internal/cli"

func main() {
	cli.Execute()
}
