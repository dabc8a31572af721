// Command kvcli is an interactive client for the kvstore HTTP API.
//
// Commands map one-to-one onto HTTP calls:
//
//	get <key>           GET    /kv/<key>
//	put <key> <value>   PUT    /kv/<key>
//	delete <key>        DELETE /kv/<key>
//	quit | exit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	host := flag.String("host", "127.0.0.1", "server host")
	port := flag.Int("port", 8080, "server port")
	flag.Parse()

	base := fmt.Sprintf("http://%s:%d", *host, *port)
	client := &http.Client{Timeout: 5 * time.Second}

	fmt.Println("Interactive KV Client")
	fmt.Println("Connected to " + base)
	printUsage()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, key, value, hasValue := parseCommand(line)
		switch cmd {
		case "quit", "exit":
			return

		case "get":
			if key == "" {
				fmt.Println("Error: 'get' requires one <key> argument.")
				continue
			}
			printResponse(do(client, http.MethodGet, base, key, ""))

		case "put":
			if key == "" || !hasValue {
				fmt.Println("Error: 'put' requires <key> and <value> arguments.")
				continue
			}
			printResponse(do(client, http.MethodPut, base, key, value))

		case "delete":
			if key == "" {
				fmt.Println("Error: 'delete' requires one <key> argument.")
				continue
			}
			printResponse(do(client, http.MethodDelete, base, key, ""))

		case "help":
			printUsage()

		default:
			fmt.Printf("Error: unknown command %q.\n", cmd)
			printUsage()
		}
	}
}

// parseCommand splits a line into command, key, and, for put, the rest
// of the line as the value (leading whitespace trimmed).
func parseCommand(line string) (cmd, key, value string, hasValue bool) {
	parts := strings.SplitN(line, " ", 3)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		key = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		value = strings.TrimLeft(parts[2], " ")
		hasValue = true
	}
	return cmd, key, value, hasValue
}

func do(client *http.Client, method, base, key, value string) (int, string, error) {
	var body io.Reader
	if method == http.MethodPut {
		body = strings.NewReader(value)
	}

	req, err := http.NewRequest(method, base+"/kv/"+url.PathEscape(key), body)
	if err != nil {
		return 0, "", err
	}
	if method == http.MethodPut {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(data), nil
}

func printResponse(status int, body string, err error) {
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
	} else {
		fmt.Printf("  Status: %d\n", status)
		fmt.Printf("  Body:   %s\n", body)
	}
	fmt.Println("--------------------")
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  get <key>")
	fmt.Println("  put <key> <value>")
	fmt.Println("  delete <key>")
	fmt.Println("  quit/exit")
	fmt.Println("--------------------")
}
