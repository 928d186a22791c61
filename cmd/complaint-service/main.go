package main

import (
	"log"

	"github.com/civicgrid/complaint-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
