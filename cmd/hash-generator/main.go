// Command hash-generator prints bcrypt hashes for the given secrets, one per
// line, using the same hasher as the server. It is meant for seeding accounts
// directly in the usuarios table.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tutorway/tutorway-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", auth.DefaultBcryptCost, "bcrypt work factor")
	flag.Parse()

	secrets := flag.Args()
	if len(secrets) == 0 {
		var err error
		if secrets, err = readLines(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read secrets: %v\n", err)
			os.Exit(1)
		}
	}

	if err := generate(os.Stdout, auth.NewBcryptHasher(*cost), secrets); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// generate writes one hash per secret to w. Secrets themselves are never echoed.
func generate(w io.Writer, hasher auth.PasswordHasher, secrets []string) error {
	for i, secret := range secrets {
		hash, err := hasher.Hash(secret)
		if err != nil {
			return fmt.Errorf("secret %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintln(w, hash); err != nil {
			return err
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
