package commands

import (
	"context"
	"fmt"
	"strings"
)

// PluginInfo describes a loaded plugin.
type PluginInfo struct {
	Name    string
	Version string
}

type PluginLister interface {
	Loaded() []PluginInfo
}

func listPlugins(plugins PluginLister) CommandFunc {
	return func(ctx context.Context, req *Request) {
		loaded := plugins.Loaded()
		if len(loaded) == 0 {
			req.Out.Reply("No plugins loaded")
			return
		}

		names := make([]string, 0, len(loaded))
		for _, p := range loaded {
			names = append(names, fmt.Sprintf("%s (v%s)", p.Name, p.Version))
		}
		req.Out.Reply("Loaded plugins: " + strings.Join(names, ", "))
	}
}
