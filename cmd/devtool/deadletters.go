package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Cleo-11/OceanX/internal/config"
	"github.com/Cleo-11/OceanX/internal/event"
)

type DeadLettersCommand struct{}

func (c *DeadLettersCommand) Name() string {
	return "dead-letters"
}

func (c *DeadLettersCommand) Description() string {
	return "List events that exhausted publish retries (--type to filter)"
}

func (c *DeadLettersCommand) Run(args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	eventType := fs.String("type", "", "only show this event type")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := getEnv("DEAD_LETTER_PATH", config.DefaultDeadLetterPath)
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		PrintSuccess("No dead-letter file at %s", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := event.ReadDeadLetters(f)
	if err != nil {
		PrintWarning("%v", err)
	}

	shown := 0
	for _, e := range entries {
		if *eventType != "" && string(e.Event.Type) != *eventType {
			continue
		}
		shown++
		fmt.Printf("%s  %-22s attempts=%d  %s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Event.Type, e.Attempts, e.LastError)
	}
	PrintInfo("%d of %d dead-lettered events shown", shown, len(entries))
	return err
}
