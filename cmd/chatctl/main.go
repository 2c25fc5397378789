// In file: cmd/chatctl/main.go

// Command chatctl runs the chat pipeline from a terminal: it can send a single
// message through the same session the server uses, or evaluate an expression
// with the calculator directly.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
