package extension

// Instance is the view of a widget an extension hook receives. The
// instance is the only shared mutable object a hook may touch, and all
// hooks run on the host's main goroutine.
type Instance interface {
	// ID returns the widget's unique instance id.
	ID() string

	// Value returns the current text value.
	Value() string

	// SetValue overwrites the text value and requests a highlight pass.
	SetValue(v string)

	// Attribute reads a host attribute.
	Attribute(name string) (string, bool)

	// SetAttribute writes a host attribute through the widget's setter
	// path, triggering the usual change propagation.
	SetAttribute(name, value string)

	// RemoveAttribute removes a host attribute.
	RemoveAttribute(name string)

	// Language returns the declared programming language, or "".
	Language() string

	// Bag returns the per-instance data bag for the named extension.
	Bag(extension string) *Bag

	// SetInstructions sets the keyboard-navigation instructions slot.
	// When prefixBase is true the base accessibility description is
	// kept in front of the text.
	SetInstructions(text string, prefixBase bool)
}

// Extension is a stateless hook bundle attached to a template.
type Extension interface {
	// Name identifies the extension. Data bags are keyed by it.
	Name() string

	// ObservedAttributes declares extra attribute names whose changes
	// the extension wants dispatched to AttributeChanged.
	ObservedAttributes() []string

	// BeforeSurfacesAdded runs before the widget builds its surfaces.
	BeforeSurfacesAdded(inst Instance)

	// AfterSurfacesAdded runs after the surfaces exist.
	AfterSurfacesAdded(inst Instance)

	// BeforeHighlight runs at the start of every highlight pass.
	BeforeHighlight(inst Instance)

	// AfterHighlight runs at the end of every highlight pass.
	AfterHighlight(inst Instance)

	// AttributeChanged runs for every attribute change on an attached
	// instance, before any built-in handling.
	AttributeChanged(inst Instance, name, oldValue, newValue string)
}

// Base is a no-op Extension suitable for embedding. Implementations
// override the hooks they care about.
type Base struct {
	// ExtName is the name reported by Name.
	ExtName string

	// Observed is the attribute set reported by ObservedAttributes.
	Observed []string
}

// Name implements Extension.
func (b Base) Name() string { return b.ExtName }

// ObservedAttributes implements Extension.
func (b Base) ObservedAttributes() []string { return b.Observed }

// BeforeSurfacesAdded implements Extension.
func (Base) BeforeSurfacesAdded(Instance) {}

// AfterSurfacesAdded implements Extension.
func (Base) AfterSurfacesAdded(Instance) {}

// BeforeHighlight implements Extension.
func (Base) BeforeHighlight(Instance) {}

// AfterHighlight implements Extension.
func (Base) AfterHighlight(Instance) {}

// AttributeChanged implements Extension.
func (Base) AttributeChanged(Instance, string, string, string) {}
