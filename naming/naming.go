// Package naming composes hierarchical resource names.
package naming

// Separator joins a parent name and a child name.
const Separator = "-"

// Name is the name of a component. Children are derived with Sub and never
// change the parent.
type Name struct {
	name string
}

// New returns the root name n.
func New(n string) Name {
	return Name{name: n}
}

// Sub returns the name of the child component called child.
func (n Name) Sub(child string) Name {
	return Name{name: n.name + Separator + child}
}

func (n Name) String() string {
	return n.name
}

// MarshalText lets a Name serialize as a plain string.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.name), nil
}
