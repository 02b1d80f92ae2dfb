// Package property provides typed name/value properties and a fluent builder
// used to decorate adapters, tags, and other domain entities with metadata.
package property

// Property is a single named metadata value with an optional description.
type Property struct {
	// Name uniquely identifies the property within one entity.
	Name string `json:"name"`
	// Value is the property value.
	Value any `json:"value"`
	// Description is optional free text describing the property.
	Description string `json:"description,omitempty"`
}

// New creates a property with the given name and value.
func New(name string, value any) *Property {
	return &Property{Name: name, Value: value}
}

// NewWithDescription creates a property with a description.
func NewWithDescription(name string, value any, description string) *Property {
	return &Property{Name: name, Value: value, Description: description}
}
