package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type WatchEventsCommand struct{}

func (c *WatchEventsCommand) Name() string {
	return "watch-events"
}

func (c *WatchEventsCommand) Description() string {
	return "Tail the server's world event stream (--session, --types)"
}

func (c *WatchEventsCommand) Run(args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	session := fs.String("session", "", "only events for this session (global events always pass)")
	types := fs.String("types", "", "comma-separated event types, e.g. node.depleted,claim.issued")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base := strings.TrimRight(getEnv("API_URL", defaultAPIURL), "/")
	q := url.Values{}
	if *session != "" {
		q.Set("session", *session)
	}
	if *types != "" {
		q.Set("types", *types)
	}
	target := base + "/events"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	PrintHeader("Watching " + target)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var eventType string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			PrintInfo("%s %s", eventType, strings.TrimPrefix(line, "data: "))
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		}
	}
	return scanner.Err()
}
