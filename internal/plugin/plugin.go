package plugin

import (
	"titlebot/internal/commands"
	"titlebot/internal/urltitle"
)

// Plugin defines the basic plugin interface.
type Plugin interface {
	Name() string
	Version() string
	OnLoad() error
}

// Unloader is an optional interface for plugins that need a cleanup hook.
type Unloader interface {
	OnUnload() error
}

// CommandProvider is implemented by plugins that add chat commands.
type CommandProvider interface {
	Commands() []commands.Command
}

// URLHandler is implemented by plugins that want to answer for some URLs
// instead of the generic title fetch.
type URLHandler interface {
	URLCallbacks() []urltitle.Callback
}
