package main

import (
	"os"

	"github.com/meetsync/meetsync/syncservice"
)

func main() {
	if err := syncservice.Run(); err != nil {
		os.Exit(1)
	}
}
