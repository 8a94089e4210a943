// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	slack := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (write routes will be open to anyone).")
	}
	ok("admin keys configured")

	if pub == "" {
		warn("PUBLIC_API_KEYS is empty (read routes will be open).")
	} else {
		ok("public keys configured")
	}

	if addr == "" {
		warn("ADDR is empty; defaulting to 127.0.0.1:8080")
	} else {
		ok("bind address: " + addr)
	}

	if db == "" {
		warn("DATABASE_URL is empty; outcomes will live in memory only.")
	} else if !strings.HasPrefix(db, "postgres://") && !strings.HasPrefix(db, "postgresql://") {
		fail("DATABASE_URL does not look like a postgres DSN.")
	} else {
		ok("database configured")
	}

	if slack == "" {
		warn("SLACK_WEBHOOK is empty; alerts will be logged but not delivered.")
	} else {
		ok("alert webhook configured")
	}
}
