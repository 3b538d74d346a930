package query

import "fmt"

// Identity is the fixed configuration a factory is bound to.
type Identity struct {
	// Name is the vector index name and the only collection name the factory accepts.
	Name string `json:"name" yaml:"name"`
	// Node is the label of the nodes the index covers.
	Node string `json:"node" yaml:"node"`
	// IndexProperty holds the vector on each node.
	IndexProperty string `json:"indexProperty" yaml:"indexProperty"`
	// TextProperty holds the original text payload on each node.
	TextProperty string `json:"textProperty" yaml:"textProperty"`
	// Dimensions is the vector length the index is created with.
	Dimensions int `json:"dimensions" yaml:"dimensions"`
}

// Validate reports the first missing or out of range field.
func (identity Identity) Validate() error {
	switch {
	case identity.Name == "":
		return fmt.Errorf("%w: index name is empty", ErrInvalidIdentity)
	case identity.Node == "":
		return fmt.Errorf("%w: node label is empty", ErrInvalidIdentity)
	case identity.IndexProperty == "":
		return fmt.Errorf("%w: index property is empty", ErrInvalidIdentity)
	case identity.Dimensions <= 0:
		return fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidIdentity, identity.Dimensions)
	}

	return nil
}

func (identity Identity) value(placeholder string) any {
	switch placeholder {
	case "name":
		return identity.Name
	case "node":
		return identity.Node
	case "indexProperty":
		return identity.IndexProperty
	case "textProperty":
		return identity.TextProperty
	case "dimensions":
		return identity.Dimensions
	}
	return nil
}
