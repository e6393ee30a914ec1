package main

import (
	"context"
	"os"

	"leaveby.app/internal/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
