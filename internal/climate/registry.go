package climate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"aircon-bridge/internal/device"
	"aircon-bridge/internal/logger"
	"aircon-bridge/internal/vocab"
)

// ServiceSetMyZone designates a zone as its unit's MyZone.
const ServiceSetMyZone = "set_myzone"

// ServiceFunc is a named operation targeted at a single entity.
type ServiceFunc func(ctx context.Context, e Entity) error

// Registry holds the entities created at setup and the named services that
// can be called on them.
type Registry struct {
	mu       sync.RWMutex
	order    []Entity
	byID     map[string]Entity
	services map[string]ServiceFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]Entity),
		services: make(map[string]ServiceFunc),
	}
}

// Setup creates one entity per AC unit and one per temperature-controlled
// zone, from the topology of the current snapshot.
func Setup(deps Deps) (*Registry, error) {
	sys := deps.Source.Snapshot()
	if sys == nil {
		return nil, errors.New("cannot set up entities without a snapshot")
	}

	r := NewRegistry()
	rid := sys.RID()
	for _, acKey := range sortedKeys(sys.Aircons) {
		ac := sys.Aircons[acKey]
		if err := r.Add(NewAircon(deps, rid, acKey, ac)); err != nil {
			return nil, err
		}
		for _, zoneKey := range sortedKeys(ac.Zones) {
			z := ac.Zones[zoneKey]
			if !device.ClimateControlled(z) {
				continue
			}
			if err := r.Add(NewZone(deps, rid, acKey, zoneKey, z)); err != nil {
				return nil, err
			}
		}
	}

	r.RegisterService(ServiceSetMyZone, func(ctx context.Context, e Entity) error {
		z, ok := e.(MyZoneSetter)
		if !ok {
			return fmt.Errorf("%w: %s on %s", ErrUnsupported, ServiceSetMyZone, e.ID())
		}
		return z.SetMyZone(ctx)
	})

	logger.Info("set up %d climate entities for controller %s", len(r.order), rid)
	return r, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add registers e. Entity ids must be unique.
func (r *Registry) Add(e Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[e.ID()]; exists {
		return fmt.Errorf("duplicate entity id %q", e.ID())
	}
	r.byID[e.ID()] = e
	r.order = append(r.order, e)
	return nil
}

// Entities returns all entities in setup order.
func (r *Registry) Entities() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entity(nil), r.order...)
}

// Get returns the entity with the given id.
func (r *Registry) Get(id string) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	return e, nil
}

// States returns the current state of every entity.
func (r *Registry) States() []State {
	entities := r.Entities()
	states := make([]State, 0, len(entities))
	for _, e := range entities {
		states = append(states, e.State())
	}
	return states
}

// RegisterService makes fn callable by name.
func (r *Registry) RegisterService(name string, fn ServiceFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[name] = fn
}

// Services lists registered service names, sorted.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.services)
}

// CallService invokes the named service on entity id.
func (r *Registry) CallService(ctx context.Context, name, id string) error {
	r.mu.RLock()
	fn, ok := r.services[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownService, name)
	}

	e, err := r.Get(id)
	if err != nil {
		return err
	}
	return fn(ctx, e)
}

// Command runs a command given as plain strings, as received from a message
// bus. command is one of hvac_mode, fan_mode, temperature or a service name.
func (r *Registry) Command(ctx context.Context, id, command, payload string) error {
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	payload = strings.TrimSpace(payload)

	switch command {
	case "hvac_mode":
		return e.SetHVACMode(ctx, vocab.HVACMode(payload))
	case "fan_mode":
		fc, ok := e.(FanController)
		if !ok {
			return fmt.Errorf("%w: fan_mode on %s", ErrUnsupported, id)
		}
		return fc.SetFanMode(ctx, vocab.FanMode(payload))
	case "temperature":
		temp, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return fmt.Errorf("%w: temperature %q: %v", ErrInvalidArgument, payload, err)
		}
		return e.SetTemperature(ctx, temp)
	default:
		return r.CallService(ctx, command, id)
	}
}
