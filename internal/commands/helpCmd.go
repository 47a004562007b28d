package commands

import (
	"context"
	"fmt"
	"strings"
)

const maxCmdsPerMsg = 5

func helpCmd(router *Router) CommandFunc {
	return func(ctx context.Context, req *Request) {
		if name := strings.TrimPrefix(strings.TrimSpace(req.Args), router.Prefix()); name != "" {
			cmd, exists := router.Lookup(name)
			if !exists {
				req.Out.Reply(fmt.Sprintf("No such command: %s", name))
				return
			}
			req.Out.Reply(describe(router.Prefix(), cmd))
			return
		}

		var availableCommands []string
		for _, cmd := range router.Commands() {
			availableCommands = append(availableCommands, fmt.Sprintf("%s%s - %s", router.Prefix(), cmd.Name, cmd.Description))
		}

		if len(availableCommands) == 0 {
			req.Out.Reply("No commands available")
			return
		}

		req.Out.Say("Available commands:")
		for _, chunk := range chunk(availableCommands, maxCmdsPerMsg) {
			req.Out.Say(strings.Join(chunk, " | "))
		}
	}
}

func describe(prefix string, cmd Command) string {
	line := fmt.Sprintf("%s%s - %s", prefix, cmd.Name, cmd.Description)
	if cmd.Usage != "" {
		line += ". Usage: " + prefix + cmd.Usage
	}
	if len(cmd.Aliases) > 0 {
		line += fmt.Sprintf(" (aliases: %s)", strings.Join(cmd.Aliases, ", "))
	}
	if cmd.Owner != BuiltinOwner {
		line += fmt.Sprintf(" [plugin %s]", cmd.Owner)
	}
	return line
}

func chunk(items []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
