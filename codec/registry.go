package codec

import (
	"cmp"
	"slices"
	"strconv"
	"sync"
)

// Registry manages the available schemes
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec // key can be either name or decimal ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

var defaultRegistry = NewRegistry()

// Register registers a scheme using both its name and ID
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a scheme by name or decimal ID
func Get(nameOrID string) (Codec, error) {
	return defaultRegistry.Get(nameOrID)
}

// GetByID retrieves a scheme by its archive identifier
func GetByID(id uint8) (Codec, error) {
	return defaultRegistry.GetByID(id)
}

// List returns all registered schemes ordered by ID
func List() []Codec {
	return defaultRegistry.List()
}

// Register registers a scheme using both its name and ID
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[codec.Name()] = codec
	r.codecs[idKey(codec.ID())] = codec
}

// Get retrieves a scheme by name or decimal ID
func (r *Registry) Get(nameOrID string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[nameOrID]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// GetByID retrieves a scheme by its archive identifier
func (r *Registry) GetByID(id uint8) (Codec, error) {
	return r.Get(idKey(id))
}

// List returns all registered schemes (deduplicated, ordered by ID)
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Codec]bool)
	codecs := make([]Codec, 0)

	for _, codec := range r.codecs {
		if !seen[codec] {
			seen[codec] = true
			codecs = append(codecs, codec)
		}
	}

	slices.SortFunc(codecs, func(a, b Codec) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return codecs
}

func idKey(id uint8) string {
	return strconv.Itoa(int(id))
}
