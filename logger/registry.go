package logger

import (
	"sync"
)

// Component names of the planner's loggers.
const (
	ComponentPlanner  = "planner"
	ComponentManifest = "manifest"
	ComponentServer   = "server"
	ComponentCLI      = "cli"
)

var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. An unregistered name yields the global
// logger tagged with that component.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers a component logger for each of the planner's
// components, derived from the global logger. Call it after Init.
func RegisterDefaults() {
	for _, name := range []string{ComponentPlanner, ComponentManifest, ComponentServer, ComponentCLI} {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
