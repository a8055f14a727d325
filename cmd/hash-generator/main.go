// Command hash-generator prints credential hashes for seeding identities by
// hand, using the same bcrypt cost the server stores.
//
//	hash-generator pw1 pw2
//	echo pw | hash-generator
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/alfa-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", auth.DefaultHashCost, "bcrypt cost")
	flag.Parse()

	if err := generate(os.Stdout, os.Stdin, flag.Args(), auth.NewBcryptHasher(*cost)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// generate hashes each argument, or each stdin line when there are none.
func generate(w io.Writer, stdin io.Reader, passwords []string, hasher auth.PasswordHasher) error {
	if len(passwords) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	for i, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("password %d: %w", i+1, err)
		}
		fmt.Fprintln(w, hash)
	}
	return nil
}
