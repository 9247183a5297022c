package main

import (
	"github.com/kestrelsim/workcell-engine/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
