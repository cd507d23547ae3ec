package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"webhook-inbox-go/internal/signature"
)

type message struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Ts        string  `json:"ts"`
	Text      *string `json:"text,omitempty"`
}

func main() {
	secret := flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "Shared webhook secret (defaults to $WEBHOOK_SECRET)")
	url := flag.String("url", "http://localhost:8000/webhook", "Webhook endpoint")
	id := flag.String("id", "", "message_id; builds the body from flags when set")
	from := flag.String("from", "+919876543210", "Sender")
	to := flag.String("to", "+14155550100", "Recipient")
	ts := flag.String("ts", "", "Message timestamp (defaults to now, UTC)")
	text := flag.String("text", "", "Message text")
	bodyFile := flag.String("body", "", "File containing request body (or use stdin)")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Usage: sign -secret <secret> [-id <message-id> ...] [-body <file>]")
		fmt.Fprintln(os.Stderr, "  Reads body from stdin if neither -id nor -body is specified")
		os.Exit(1)
	}

	var (
		body []byte
		err  error
	)
	switch {
	case *id != "":
		msg := message{MessageID: *id, From: *from, To: *to, Ts: *ts}
		if msg.Ts == "" {
			msg.Ts = time.Now().UTC().Format(time.RFC3339)
		}
		if *text != "" {
			msg.Text = text
		}
		body, err = buildBody(msg)
	case *bodyFile != "":
		body, err = os.ReadFile(*bodyFile)
	default:
		body, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read body: %v\n", err)
		os.Exit(1)
	}

	sig := signature.Sign(*secret, body)
	fmt.Printf("%s: %s\n", signature.HeaderName, sig)
	fmt.Println(curlCommand(*url, sig, body))
}

func buildBody(msg message) ([]byte, error) {
	return json.Marshal(msg)
}

func curlCommand(url, sig string, body []byte) string {
	return fmt.Sprintf("curl -sS -X POST %s -H 'Content-Type: application/json' -H '%s: %s' --data-binary %s",
		shellQuote(url), signature.HeaderName, sig, shellQuote(string(body)))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
