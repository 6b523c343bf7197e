package main

import (
	"os"

	"github.com/GoCurtain/GoCurtain/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
