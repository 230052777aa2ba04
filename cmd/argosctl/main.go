/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"os"

	"github.com/argosnews/argosctl/cmd"
)

func main() {
	err := cmd.Execute()
	_ = coreClient.Close()
	if err != nil {
		os.Exit(1)
	}
}
