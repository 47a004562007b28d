package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"titlebot/internal/logger"
	"titlebot/internal/urltitle"
)

// Request is one parsed command invocation.
type Request struct {
	Command string
	// Args is the trimmed text after the command name.
	Args    string
	Trigger urltitle.Trigger
	Out     urltitle.Replier
}

// Fields splits Args on whitespace.
func (r *Request) Fields() []string {
	return strings.Fields(r.Args)
}

type CommandFunc func(ctx context.Context, req *Request)

type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	// Owner is "builtin" or the name of the plugin that registered the command.
	Owner   string
	Handler CommandFunc
}

const BuiltinOwner = "builtin"

// Router maps command names and aliases to commands.
type Router struct {
	prefix string

	mu       sync.RWMutex
	commands map[string]*Command
	names    map[string]*Command
}

func NewRouter(prefix string) *Router {
	return &Router{
		prefix:   prefix,
		commands: make(map[string]*Command),
		names:    make(map[string]*Command),
	}
}

// Prefix returns the command prefix, e.g. ".".
func (r *Router) Prefix() string {
	return r.prefix
}

// Register adds cmd under its name and aliases. Registering a name that is
// already taken fails and leaves the router unchanged.
func (r *Router) Register(cmd Command) error {
	if cmd.Name == "" || cmd.Handler == nil {
		return fmt.Errorf("command needs a name and a handler")
	}
	if cmd.Owner == "" {
		cmd.Owner = BuiltinOwner
	}

	keys := append([]string{cmd.Name}, cmd.Aliases...)
	for i, key := range keys {
		keys[i] = strings.ToLower(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		if existing, taken := r.names[key]; taken {
			return fmt.Errorf("command %q is already registered by %s", key, existing.Owner)
		}
	}

	stored := cmd
	r.commands[strings.ToLower(cmd.Name)] = &stored
	for _, key := range keys {
		r.names[key] = &stored
	}
	logger.Debugf("Registered command %s%s (%s)", r.prefix, cmd.Name, cmd.Owner)
	return nil
}

// Unregister removes every command registered by owner and returns how many
// were removed.
func (r *Router) Unregister(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for name, cmd := range r.commands {
		if cmd.Owner != owner {
			continue
		}
		delete(r.commands, name)
		for key, target := range r.names {
			if target == cmd {
				delete(r.names, key)
			}
		}
		removed++
	}
	return removed
}

// Lookup finds a command by name or alias, case-insensitively.
func (r *Router) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.names[strings.ToLower(name)]
	if !exists {
		return Command{}, false
	}
	return *cmd, true
}

// Commands returns the registered commands sorted by name.
func (r *Router) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		list = append(list, *cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Parse splits "<prefix>name rest" into the lower-cased name and the trimmed rest.
func (r *Router) Parse(text string) (name string, args string, ok bool) {
	text = strings.TrimSpace(text)
	if r.prefix == "" || !strings.HasPrefix(text, r.prefix) {
		return "", "", false
	}
	text = text[len(r.prefix):]

	name, args = text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i != -1 {
		name, args = text[:i], text[i:]
	}
	name = strings.ToLower(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(args), true
}

// Handle runs the command in trigger.Text if it names a registered command.
// It reports false for anything else so the caller can treat the text as an
// ordinary message.
func (r *Router) Handle(ctx context.Context, trigger urltitle.Trigger, out urltitle.Replier) bool {
	name, args, ok := r.Parse(trigger.Text)
	if !ok {
		return false
	}
	cmd, exists := r.Lookup(name)
	if !exists {
		return false
	}

	logger.Debugf("Command %s%s from %s in %s", r.prefix, name, trigger.Nick, trigger.Channel)
	cmd.Handler(ctx, &Request{
		Command: name,
		Args:    args,
		Trigger: trigger,
		Out:     out,
	})
	return true
}
