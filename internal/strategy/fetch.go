package strategy

import "hbm-source/internal/common"

// FetchTiming describes when an association target is loaded relative to its owner.
type FetchTiming int

const (
	// FetchImmediate - loaded together with the owner.
	FetchImmediate FetchTiming = iota
	// FetchDelayed - loaded on first access.
	FetchDelayed
	// FetchExtraDelayed - loaded piecemeal; the legacy EXTRA_LAZY for singular attributes.
	FetchExtraDelayed
)

// String returns a human-readable timing name.
func (t FetchTiming) String() string {
	switch t {
	case FetchImmediate:
		return "immediate"
	case FetchDelayed:
		return "delayed"
	case FetchExtraDelayed:
		return "extra_delayed"
	default:
		return common.UnknownStr
	}
}

// FetchStyle describes the loading mechanism of an association.
type FetchStyle int

const (
	FetchSelect FetchStyle = iota
	FetchJoin
	FetchSubselect
	FetchBatch
)

// String returns a human-readable style name.
func (s FetchStyle) String() string {
	switch s {
	case FetchSelect:
		return "select"
	case FetchJoin:
		return "join"
	case FetchSubselect:
		return "subselect"
	case FetchBatch:
		return "batch"
	default:
		return common.UnknownStr
	}
}

// FetchSettings are the raw descriptor signals that drive fetch resolution.
// Empty strings mean "unset".
type FetchSettings struct {
	// Attribute is the owning attribute name, used in error messages.
	Attribute string
	// Lazy is the "lazy" token: true, false, extra, proxy, no-proxy.
	Lazy string
	// Fetch is the "fetch" token: select, join, subselect.
	Fetch string
	// OuterJoin is the deprecated "outer-join" token: true, false, auto.
	OuterJoin string
	// BatchSize is the collection batch size; only plural attributes use it.
	BatchSize int
	// Plural marks collection attributes.
	Plural bool
	// ImmediateRequired forces IMMEDIATE when nothing else decides
	// (e.g. a non-constrained one-to-one cannot be proxied).
	ImmediateRequired bool
	// AssociationsLazy is the binding context's global laziness default.
	AssociationsLazy bool
}

// ResolveFetchTiming derives the fetch timing. An unrecognized lazy token is an error.
func ResolveFetchTiming(s FetchSettings) (FetchTiming, error) {
	if s.Lazy == "" {
		return defaultFetchTiming(s), nil
	}

	switch s.Lazy {
	case "extra":
		return FetchExtraDelayed, nil
	case "true", "proxy", "no-proxy":
		return FetchDelayed, nil
	case "false":
		return FetchImmediate, nil
	default:
		return FetchImmediate, &UnknownTokenError{Setting: "lazy", Token: s.Lazy, Attribute: s.Attribute}
	}
}

// ResolveManyToManyFetchTiming derives the fetch timing of a many-to-many element.
// Unlike ResolveFetchTiming, any lazy token other than "false" silently means DELAYED.
func ResolveManyToManyFetchTiming(s FetchSettings) FetchTiming {
	if s.Lazy == "" {
		return defaultFetchTiming(s)
	}

	if s.Lazy == "false" {
		return FetchImmediate
	}

	return FetchDelayed
}

func defaultFetchTiming(s FetchSettings) FetchTiming {
	switch {
	case s.Fetch == "join" || s.OuterJoin == "true":
		return FetchImmediate
	case s.OuterJoin == "false":
		return FetchDelayed
	case s.ImmediateRequired:
		return FetchImmediate
	case s.AssociationsLazy:
		return FetchDelayed
	default:
		return FetchImmediate
	}
}

// ResolveFetchStyle derives the fetch style.
// A plural batch size above one yields batch fetching only when neither
// fetch nor outer-join is given.
func ResolveFetchStyle(s FetchSettings) FetchStyle {
	switch s.Fetch {
	case "":
		switch s.OuterJoin {
		case "":
			if s.Plural && s.BatchSize > 1 {
				return FetchBatch
			}
			return FetchSelect
		case "auto":
			if s.AssociationsLazy {
				return FetchSelect
			}
			return FetchJoin
		case "true":
			return FetchJoin
		default:
			return FetchSelect
		}
	case "subselect":
		return FetchSubselect
	case "join":
		return FetchJoin
	default:
		return FetchSelect
	}
}

// CheckFetchTokens validates the fetch and outer-join tokens.
func CheckFetchTokens(s FetchSettings) error {
	switch s.Fetch {
	case "", "select", "join", "subselect":
	default:
		return &UnknownTokenError{Setting: "fetch", Token: s.Fetch, Attribute: s.Attribute}
	}

	switch s.OuterJoin {
	case "", "true", "false", "auto":
		return nil
	default:
		return &UnknownTokenError{Setting: "outer-join", Token: s.OuterJoin, Attribute: s.Attribute}
	}
}
