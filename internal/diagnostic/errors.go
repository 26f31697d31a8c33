package diagnostic

import (
	"errors"
	"fmt"

	"hbm-source/internal/common"
)

// Kind classifies a mapping resolution failure.
type Kind int

const (
	// KindStructuralConflict - mutually exclusive descriptor signals were combined.
	KindStructuralConflict Kind = iota + 1
	// KindUnresolvableReference - a reference could not be resolved once resolution got stuck.
	KindUnresolvableReference
	// KindUnsupportedFeature - a legacy element kind that was never implemented.
	KindUnsupportedFeature
	// KindUnknownToken - an enumerated attribute carried a value outside its domain.
	KindUnknownToken
	// KindDuplicateMapping - the same name was mapped twice.
	KindDuplicateMapping
)

// String returns the diagnostic code for the kind.
func (k Kind) String() string {
	switch k {
	case KindStructuralConflict:
		return "structural_conflict"
	case KindUnresolvableReference:
		return "unresolvable_reference"
	case KindUnsupportedFeature:
		return "unsupported_feature"
	case KindUnknownToken:
		return "unknown_token"
	case KindDuplicateMapping:
		return "duplicate_mapping"
	default:
		return common.UnknownStr
	}
}

// Sentinels for errors.Is matching against a MappingError's kind.
var (
	ErrStructuralConflict    = &MappingError{Kind: KindStructuralConflict}
	ErrUnresolvableReference = &MappingError{Kind: KindUnresolvableReference}
	ErrUnsupportedFeature    = &MappingError{Kind: KindUnsupportedFeature}
	ErrUnknownToken          = &MappingError{Kind: KindUnknownToken}
	ErrDuplicateMapping      = &MappingError{Kind: KindDuplicateMapping}
)

// Origin identifies where in the input a problem was detected.
type Origin struct {
	// Name is the document identity, usually its file path.
	Name string
	// Element is an optional element path inside the document (e.g. "class[Order]/set[lines]").
	Element string
}

// String renders the origin as "name" or "name#element".
func (o Origin) String() string {
	if o.Element == "" {
		return o.Name
	}

	return o.Name + "#" + o.Element
}

// At returns a copy of the origin pointing at a nested element.
func (o Origin) At(element string) Origin {
	if o.Element != "" {
		element = o.Element + "/" + element
	}

	return Origin{Name: o.Name, Element: element}
}

// MappingError is the single error type raised by mapping resolution.
type MappingError struct {
	Kind    Kind
	Origin  Origin
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// NewMappingError creates a MappingError with a formatted message.
func NewMappingError(kind Kind, origin Origin, format string, args ...any) *MappingError {
	return &MappingError{
		Kind:    kind,
		Origin:  origin,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapMappingError turns err into a MappingError of the given kind at origin.
// An err that already is a MappingError keeps its kind and message; it only
// receives origin when it has none.
func WrapMappingError(kind Kind, origin Origin, err error) *MappingError {
	if err == nil {
		return nil
	}

	var me *MappingError
	if errors.As(err, &me) {
		if me.Origin != (Origin{}) {
			return me
		}

		located := *me
		located.Origin = origin

		return &located
	}

	return &MappingError{Kind: kind, Origin: origin, Message: err.Error(), Err: err}
}

// Error implements error.
func (e *MappingError) Error() string {
	origin := e.Origin.String()
	if origin == "" {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("[%s] %s (origin: %s)", e.Kind, e.Message, origin)
}

// Unwrap returns the underlying cause.
func (e *MappingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a MappingError sentinel of the same kind.
func (e *MappingError) Is(target error) bool {
	t, ok := target.(*MappingError)
	if !ok {
		return false
	}

	return t.Message == "" && t.Kind == e.Kind
}

// KindOf returns the Kind of the first MappingError in err's chain, or 0.
func KindOf(err error) Kind {
	var me *MappingError
	if errors.As(err, &me) {
		return me.Kind
	}

	return 0
}
