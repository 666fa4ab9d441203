// Generates the bcrypt hash for the editor password, for pasting into the
// config file's editor.passwordHash field.
package main

import (
	"fmt"
	"log"
	"os"

	"catan-tracker/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: hashpw <password>")
		os.Exit(1)
	}

	hash, err := auth.NewPasswordService().HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(hash)
}
