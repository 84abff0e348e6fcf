package main

import "github.com/mridulgandhi29/real-estate-tracker/internal/cli"

func main() {
	cli.Execute()
}
