package main

import (
	"log"

	"github.com/iabalyuk/dailytracker/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
