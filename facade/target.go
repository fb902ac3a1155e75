package facade

// Target is the real object wrapped by a facade, plus a display name.
type Target interface {
	// Name returns the display name used in logs and errors.
	Name() string
	// Handle returns the underlying object.
	Handle() any
}

// HardcodedTarget is a Target with a fixed name and handle.
type HardcodedTarget struct {
	name   string
	handle any
}

// NewTarget creates a Target from a display name and a handle.
func NewTarget(name string, handle any) *HardcodedTarget {
	return &HardcodedTarget{name: name, handle: handle}
}

func (t *HardcodedTarget) Name() string   { return t.name }
func (t *HardcodedTarget) Handle() any    { return t.handle }
func (t *HardcodedTarget) String() string { return t.name }

// TargetContext holds the target of the most recently built facade.
type TargetContext struct {
	Target Target
}
