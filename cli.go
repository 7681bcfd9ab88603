//go:build cli
// +build cli

package main

import (
	"warehouse.GO/cmd"
	"warehouse.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
