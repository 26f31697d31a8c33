package query

import (
	"strings"

	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/registry"
	"hbm-source/internal/source"
	"hbm-source/internal/strategy"
)

func parseLockMode(token, alias string) (registry.LockMode, error) {
	switch token {
	case "", "read":
		return registry.LockRead, nil
	case "none":
		return registry.LockNone, nil
	case "upgrade":
		return registry.LockUpgrade, nil
	case "upgrade-nowait":
		return registry.LockUpgradeNoWait, nil
	case "upgrade-skiplocked":
		return registry.LockUpgradeSkipLocked, nil
	case "write":
		return registry.LockWrite, nil
	case "force":
		return registry.LockForce, nil
	default:
		return registry.LockRead, &strategy.UnknownTokenError{Setting: "lock-mode", Token: token, Attribute: alias}
	}
}

func propertyResults(props []descriptor.ReturnProperty) []registry.PropertyResult {
	if len(props) == 0 {
		return nil
	}

	out := make([]registry.PropertyResult, len(props))
	for i, p := range props {
		out[i] = registry.PropertyResult{Name: p.Name, Columns: p.Columns}
	}

	return out
}

// splitPath splits "owner.property" at its last dot.
func splitPath(path string) (string, string, bool) {
	i := strings.LastIndex(path, ".")
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}

	return path[:i], path[i+1:], true
}

// bindReturns converts a native result mapping. Aliases must be unique and
// a return-join may only refer to an alias declared before it.
func bindReturns(doc *source.MappingDocument, returns descriptor.Returns, element string) ([]registry.NativeReturn, error) {
	if len(returns) == 0 {
		return nil, nil
	}

	out := make([]registry.NativeReturn, 0, len(returns))
	aliases := make(map[string]bool, len(returns))

	declare := func(alias, at string) error {
		if alias == "" {
			return doc.MakeMappingError(diagnostic.KindStructuralConflict, at, "return declares no alias")
		}

		if aliases[alias] {
			return doc.MakeMappingError(diagnostic.KindDuplicateMapping, at, "duplicate return alias '%s'", alias)
		}

		aliases[alias] = true

		return nil
	}

	for _, r := range returns {
		switch ret := r.(type) {
		case *descriptor.Return:
			at := element + "/return[" + ret.Alias + "]"

			err := declare(ret.Alias, at)
			if err != nil {
				return nil, err
			}

			lock, err := parseLockMode(ret.LockMode, ret.Alias)
			if err != nil {
				return nil, doc.WrapMappingError(diagnostic.KindUnknownToken, at, err)
			}

			out = append(out, &registry.RootReturn{
				Alias:               ret.Alias,
				EntityName:          doc.DetermineEntityName(ret.EntityName, ret.Class),
				LockMode:            lock,
				DiscriminatorColumn: ret.Discriminator,
				Properties:          propertyResults(ret.Properties),
			})

		case *descriptor.ReturnJoin:
			at := element + "/return-join[" + ret.Alias + "]"

			owner, property, ok := common.Root(ret.Property)
			if !ok || owner == "" || property == "" || strings.Contains(property, ".") {
				return nil, doc.MakeMappingError(diagnostic.KindStructuralConflict, at,
					"return-join property '%s' must be of the form alias.property", ret.Property)
			}

			if !aliases[owner] {
				return nil, doc.MakeMappingError(diagnostic.KindUnresolvableReference, at,
					"return-join '%s' refers to unknown owner alias '%s'", ret.Alias, owner)
			}

			err := declare(ret.Alias, at)
			if err != nil {
				return nil, err
			}

			lock, err := parseLockMode(ret.LockMode, ret.Alias)
			if err != nil {
				return nil, doc.WrapMappingError(diagnostic.KindUnknownToken, at, err)
			}

			out = append(out, &registry.JoinReturn{
				Alias:         ret.Alias,
				OwnerAlias:    owner,
				OwnerProperty: property,
				LockMode:      lock,
				Properties:    propertyResults(ret.Properties),
			})

		case *descriptor.LoadCollection:
			at := element + "/load-collection[" + ret.Alias + "]"

			owner, property, ok := splitPath(ret.Role)
			if !ok {
				return nil, doc.MakeMappingError(diagnostic.KindStructuralConflict, at,
					"load-collection role '%s' must be of the form entity.property", ret.Role)
			}

			err := declare(ret.Alias, at)
			if err != nil {
				return nil, err
			}

			lock, err := parseLockMode(ret.LockMode, ret.Alias)
			if err != nil {
				return nil, doc.WrapMappingError(diagnostic.KindUnknownToken, at, err)
			}

			out = append(out, &registry.CollectionReturn{
				Alias:           ret.Alias,
				OwnerEntityName: doc.QualifyClassName(owner),
				OwnerProperty:   property,
				LockMode:        lock,
				Properties:      propertyResults(ret.Properties),
			})

		case *descriptor.ReturnScalar:
			if ret.Column == "" {
				return nil, doc.MakeMappingError(diagnostic.KindStructuralConflict, element+"/return-scalar",
					"return-scalar declares no column")
			}

			out = append(out, &registry.ScalarReturn{Column: ret.Column, Type: ret.Type})
		}
	}

	return out, nil
}
