package descriptor

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// singleEntry splits a single-key map like {property: {...}} into its key and value.
func singleEntry(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: expected single key map like {property: {...}}", node.Line)
	}

	var key string

	err := node.Content[0].Decode(&key)
	if err != nil {
		return "", nil, fmt.Errorf("line %d: invalid element key: %w", node.Line, err)
	}

	return key, node.Content[1], nil
}

// --- Attributes YAML methods ---

// UnmarshalYAML decodes an ordered list of single-key attribute maps.
func (a *Attributes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of attribute elements, got %v", node.Line, node.Kind)
	}

	out := make(Attributes, 0, len(node.Content))

	for _, item := range node.Content {
		key, value, err := singleEntry(item)
		if err != nil {
			return err
		}

		factory, ok := attributeFactories[key]
		if !ok {
			return fmt.Errorf("line %d: unknown attribute element %q", item.Line, key)
		}

		elem := factory()

		err = value.Decode(elem)
		if err != nil {
			return fmt.Errorf("line %d: invalid %s: %w", item.Line, key, err)
		}

		out = append(out, elem)
	}

	*a = out

	return nil
}

// --- ClassDeclaration YAML methods ---

var classKinds = map[string]ClassKind{
	"class":           ClassRoot,
	"subclass":        ClassSubclass,
	"joined-subclass": ClassJoinedSubclass,
	"union-subclass":  ClassUnionSubclass,
}

// UnmarshalYAML decodes a single-key map naming the class kind.
func (d *ClassDeclaration) UnmarshalYAML(node *yaml.Node) error {
	key, value, err := singleEntry(node)
	if err != nil {
		return err
	}

	kind, ok := classKinds[key]
	if !ok {
		return fmt.Errorf("line %d: unknown class element %q", node.Line, key)
	}

	d.Kind = kind

	if kind == ClassRoot {
		d.Class = &Class{}
		err = value.Decode(d.Class)
	} else {
		d.Subclass = &Subclass{}
		err = value.Decode(d.Subclass)
	}

	if err != nil {
		return fmt.Errorf("line %d: invalid %s: %w", node.Line, key, err)
	}

	return nil
}

// --- Returns YAML methods ---

// UnmarshalYAML decodes an ordered list of single-key return maps.
func (r *Returns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of return elements, got %v", node.Line, node.Kind)
	}

	out := make(Returns, 0, len(node.Content))

	for _, item := range node.Content {
		key, value, err := singleEntry(item)
		if err != nil {
			return err
		}

		factory, ok := returnFactories[key]
		if !ok {
			return fmt.Errorf("line %d: unknown return element %q", item.Line, key)
		}

		elem := factory()

		err = value.Decode(elem)
		if err != nil {
			return fmt.Errorf("line %d: invalid %s: %w", item.Line, key, err)
		}

		out = append(out, elem)
	}

	*r = out

	return nil
}

// --- ColumnOrFormula YAML methods ---

// UnmarshalYAML accepts:
//   - Column name: "first_name"
//   - Column element: {column: {name: first_name, length: 40}} or {column: first_name}
//   - Formula: {formula: "upper(last_name)"}
func (c *ColumnOrFormula) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var name string

		err := node.Decode(&name)
		if err != nil {
			return err
		}

		*c = ColumnOrFormula{Column: &Column{Name: name}}

		return nil
	}

	key, value, err := singleEntry(node)
	if err != nil {
		return err
	}

	switch key {
	case "column":
		var col Column

		err = value.Decode(&col)
		if err != nil {
			return err
		}

		*c = ColumnOrFormula{Column: &col}

		return nil

	case "formula":
		var formula string

		err = value.Decode(&formula)
		if err != nil {
			return err
		}

		*c = ColumnOrFormula{Formula: formula}

		return nil

	default:
		return fmt.Errorf("line %d: expected column or formula, got %q", node.Line, key)
	}
}

// --- Scalar shorthand YAML methods ---

// UnmarshalYAML accepts a column name or a full column element.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Column{}
		return node.Decode(&c.Name)
	}

	type plain Column

	return node.Decode((*plain)(c))
}

// UnmarshalYAML accepts a type name or {name, params}.
func (t *TypeSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = TypeSpec{}
		return node.Decode(&t.Name)
	}

	type plain TypeSpec

	return node.Decode((*plain)(t))
}

// UnmarshalYAML accepts a generator class or {class, params}.
func (g *Generator) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*g = Generator{}
		return node.Decode(&g.Class)
	}

	type plain Generator

	return node.Decode((*plain)(g))
}

// UnmarshalYAML accepts an SQL statement or {sql, callable, check}.
func (s *CustomSQL) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = CustomSQL{}
		return node.Decode(&s.SQL)
	}

	type plain CustomSQL

	return node.Decode((*plain)(s))
}
