package extension

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
)

// SearchContext is implemented by handles that can locate children.
type SearchContext interface {
	Find(locator string) (any, error)
}

// Find answers locator methods: it finds the child at the method's locator
// on the target handle and returns a facade of the method's result
// interface over it, built with the same Atlas.
//
// Locators are registered per method name. A method with arguments uses
// its locator as a format string for them, so Row(i int) can map to
// "tr:nth-child(%d)".
type Find struct {
	atlas *facade.Atlas

	mu       sync.RWMutex
	locators map[string]string
}

// NewFind creates a Find building nested facades with atlas.
func NewFind(atlas *facade.Atlas) *Find {
	return &Find{atlas: atlas, locators: make(map[string]string)}
}

// Locate maps method to locator.
func (f *Find) Locate(method, locator string) *Find {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locators[method] = locator
	return f
}

func (f *Find) locator(method string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	l, ok := f.locators[method]
	return l, ok
}

// Test accepts located methods returning exactly one interface value,
// optionally followed by an error.
func (f *Find) Test(m facade.Method) bool {
	if _, ok := f.locator(m.Name); !ok {
		return false
	}
	results := m.Results()
	return len(results) == 1 && results[0].Kind() == reflect.Interface
}

func (f *Find) Invoke(target facade.Target, m facade.Method, args []any) ([]any, error) {
	locator, _ := f.locator(m.Name)
	if len(args) > 0 {
		locator = fmt.Sprintf(locator, args...)
	}

	sc, ok := target.Handle().(SearchContext)
	if !ok {
		return nil, errors.InvalidInput("target",
			fmt.Sprintf("%s cannot locate children", target.Name()))
	}
	child, err := sc.Find(locator)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, errors.NotFound(m.Name, locator)
	}

	name := fmt.Sprintf("%s :: %s [%s]", target.Name(), m.Name, locator)
	nested, err := f.atlas.Build(facade.NewTarget(name, child), m.Results()[0])
	if err != nil {
		return nil, err
	}
	return []any{nested}, nil
}

var _ facade.MethodExtension = (*Find)(nil)
