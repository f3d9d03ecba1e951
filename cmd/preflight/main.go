// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	endpointsPath := strings.TrimSpace(os.Getenv("ENDPOINTS_PATH"))
	if endpointsPath == "" {
		endpointsPath = "config/endpoints.json"
	}
	dbPath := strings.TrimSpace(os.Getenv("DB_PATH"))
	if dbPath == "" {
		dbPath = "data/monitor.db"
	}
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	webDir := strings.TrimSpace(os.Getenv("WEB_DIR"))

	if _, err := os.Stat(endpointsPath); err != nil {
		fail("endpoints config missing: " + endpointsPath + " (tip: copy config/endpoints.example.json)")
	}
	ok("endpoints config present: " + endpointsPath)

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		fail("cannot create db directory " + dbDir + ": " + err.Error())
	}
	probe := filepath.Join(dbDir, ".preflight")
	if err := os.WriteFile(probe, []byte("x"), 0o644); err != nil {
		fail("db directory not writable: " + dbDir)
	}
	_ = os.Remove(probe)
	ok("db directory writable: " + dbDir)

	if addr == "" {
		warn("ADDR empty; default 127.0.0.1:8000 will be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if webDir == "" {
		warn("WEB_DIR empty — dashboard routes disabled, API only.")
	} else if _, err := os.Stat(filepath.Join(webDir, "index.html")); err != nil {
		warn("WEB_DIR set but index.html missing under " + webDir)
	} else {
		ok("WEB_DIR=" + webDir)
	}

	ok("preflight passed")
}
