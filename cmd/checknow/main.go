package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8000"
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: checknow <endpoint-name>")
		os.Exit(2)
	}
	name := os.Args[1]

	body, _ := json.Marshal(map[string]string{"name": name})
	resp, err := http.Post(api+"/api/check-now", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		fmt.Printf("Check dispatched for %q. Watch GET /api/status.\n", name)
	case http.StatusNotFound:
		fmt.Fprintf(os.Stderr, "Unknown endpoint %q.\n", name)
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
		os.Exit(1)
	}
}
