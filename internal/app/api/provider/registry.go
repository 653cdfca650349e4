package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Creator builds an engine from settings
type Creator func(settings Settings) (Engine, error)

var (
	creators   = make(map[string]Creator)
	creatorsMu sync.RWMutex
)

// Register makes an engine available by name. Engine packages call it from init.
func Register(name string, creator Creator) {
	creatorsMu.Lock()
	defer creatorsMu.Unlock()
	creators[name] = creator
}

// Registered returns the sorted names of all registered engines
func Registered() []string {
	creatorsMu.RLock()
	defer creatorsMu.RUnlock()

	names := make([]string, 0, len(creators))
	for name := range creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load builds the named engine, checks its configuration and wraps it with
// Guarded when it is not reentrant. It is called once at startup.
func Load(settings Settings) (Engine, error) {
	creatorsMu.RLock()
	creator, ok := creators[settings.Name]
	creatorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("engine %q not registered (available: %v)", settings.Name, Registered())
	}

	engine, err := creator(settings)
	if err != nil {
		return nil, fmt.Errorf("create engine %q: %w", settings.Name, err)
	}
	if v, ok := engine.(interface{ ValidateConfiguration() error }); ok {
		if err := v.ValidateConfiguration(); err != nil {
			return nil, fmt.Errorf("engine %q validation failed: %w", settings.Name, err)
		}
	}
	return Guarded(engine), nil
}
