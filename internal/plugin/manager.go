package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	goPlugin "plugin"
	"sync"
	"time"

	"titlebot/internal/commands"
	"titlebot/internal/logger"
	"titlebot/internal/urltitle"
)

type pluginInfo struct {
	plugin        Plugin
	version       string
	loadTimestamp time.Time
	filePath      string
}

// Manager keeps the loaded plugins in load order and wires their commands
// and URL callbacks into the bot.
type Manager struct {
	router   *commands.Router
	registry *urltitle.Registry

	mu      sync.Mutex
	order   []string
	plugins map[string]pluginInfo
}

func NewManager(router *commands.Router, registry *urltitle.Registry) *Manager {
	return &Manager{
		router:   router,
		registry: registry,
		plugins:  make(map[string]pluginInfo),
	}
}

// Register loads an already constructed plugin. path is informational and
// may be empty for plugins compiled into the bot. A plugin already loaded at
// the same version is left alone; a different version replaces it.
func (m *Manager) Register(plug Plugin, path string) error {
	pluginName := plug.Name()
	pluginVersion := plug.Version()

	m.mu.Lock()
	defer m.mu.Unlock()

	if existingInfo, exists := m.plugins[pluginName]; exists {
		if existingInfo.version == pluginVersion {
			logger.Infof("Plugin %s version %s is already loaded", pluginName, pluginVersion)
			return nil
		}
		m.unloadLocked(pluginName)
		logger.Infof("Unloaded previous version of plugin %s (was %s, loading %s)",
			pluginName, existingInfo.version, pluginVersion)
	}

	if err := plug.OnLoad(); err != nil {
		return fmt.Errorf("plugin %s OnLoad error: %w", pluginName, err)
	}

	if provider, ok := plug.(CommandProvider); ok && m.router != nil {
		for _, cmd := range provider.Commands() {
			cmd.Owner = pluginName
			if err := m.router.Register(cmd); err != nil {
				m.router.Unregister(pluginName)
				m.callOnUnload(pluginName, plug)
				return fmt.Errorf("plugin %s: %w", pluginName, err)
			}
		}
	}

	if handler, ok := plug.(URLHandler); ok && m.registry != nil {
		for _, cb := range handler.URLCallbacks() {
			m.registry.Register(pluginName, cb)
		}
	}

	m.plugins[pluginName] = pluginInfo{
		plugin:        plug,
		version:       pluginVersion,
		loadTimestamp: time.Now(),
		filePath:      path,
	}
	m.order = append(m.order, pluginName)

	if path == "" {
		logger.Infof("Plugin %s version %s loaded", pluginName, pluginVersion)
	} else {
		logger.Infof("Plugin %s version %s loaded from %s", pluginName, pluginVersion, path)
	}
	return nil
}

// LoadPlugin loads a single plugin from the given .so file.
func (m *Manager) LoadPlugin(path string) error {
	p, err := goPlugin.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open plugin %s: %w", path, err)
	}

	symPlugin, err := p.Lookup("Plugin")
	if err != nil {
		return fmt.Errorf("failed to lookup Plugin symbol in %s: %w", path, err)
	}

	plug, ok := symPlugin.(Plugin)
	if !ok {
		return fmt.Errorf("invalid plugin type in %s", path)
	}

	return m.Register(plug, path)
}

// LoadPluginsFromDir scans a directory for .so files and loads them.
// Returns the number of successfully loaded plugins and any error encountered during directory reading.
func (m *Manager) LoadPluginsFromDir(dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read plugin directory %s: %w", dir, err)
	}

	loadedCount := 0
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".so" {
			continue
		}
		if err := m.LoadPlugin(filepath.Join(dir, file.Name())); err != nil {
			logger.Errorf("Error loading plugin %s: %v", file.Name(), err)
			continue
		}
		loadedCount++
	}
	return loadedCount, nil
}

// Unload removes a plugin together with its commands and URL callbacks.
// If the plugin implements Unloader, its OnUnload method is called.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, exists := m.plugins[name]
	if !exists {
		return fmt.Errorf("plugin %s is not loaded", name)
	}
	m.unloadLocked(name)
	logger.Infof("Plugin %s version %s unloaded", name, info.version)
	return nil
}

// UnloadAll unloads every plugin in reverse load order.
func (m *Manager) UnloadAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		m.unloadLocked(m.order[i])
	}
}

func (m *Manager) unloadLocked(name string) {
	info, exists := m.plugins[name]
	if !exists {
		return
	}

	if m.router != nil {
		m.router.Unregister(name)
	}
	if m.registry != nil {
		m.registry.Unregister(name)
	}
	m.callOnUnload(name, info.plugin)

	delete(m.plugins, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Manager) callOnUnload(name string, plug Plugin) {
	if unloader, ok := plug.(Unloader); ok {
		if err := unloader.OnUnload(); err != nil {
			logger.Errorf("OnUnload error for plugin %s: %v", name, err)
		}
	}
}

// Loaded returns the loaded plugins in load order.
func (m *Manager) Loaded() []commands.PluginInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := make([]commands.PluginInfo, 0, len(m.order))
	for _, name := range m.order {
		loaded = append(loaded, commands.PluginInfo{Name: name, Version: m.plugins[name].version})
	}
	return loaded
}

// GetPluginVersion returns the version of a loaded plugin.
func (m *Manager) GetPluginVersion(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, exists := m.plugins[name]
	if !exists {
		return "", false
	}
	return info.version, true
}
