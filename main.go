package main

import (
	"os"

	"github.com/tenderdesk/tenderdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
