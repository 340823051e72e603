/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Entry point of the structgen command-line tool.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/structgen/cmd/structgen/commands"
)

var version = "1.0.0"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
