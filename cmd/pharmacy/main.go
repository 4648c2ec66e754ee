package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/darfe-e/greenFarmacy/cli"
)

func main() {
	// a missing .env is fine; the environment and flags still apply
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
