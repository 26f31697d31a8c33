package strategy

import "fmt"

// UnknownTokenError reports an enumerated descriptor value outside its domain.
type UnknownTokenError struct {
	// Setting is the descriptor attribute that carried the token (e.g. "lazy").
	Setting string
	// Token is the offending value.
	Token string
	// Attribute names the owning attribute or entity.
	Attribute string
}

// Error implements error.
func (e *UnknownTokenError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("unexpected %s selection [%s]", e.Setting, e.Token)
	}

	return fmt.Sprintf("unexpected %s selection [%s] on '%s'", e.Setting, e.Token, e.Attribute)
}
