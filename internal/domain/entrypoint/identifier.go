package entrypoint

import (
	"fmt"
	"strings"
)

// Parse splits an identifier into its group and name.
// The identifier must contain exactly one Separator.
func Parse(identifier string) (group, name string, err error) {
	parts := strings.Split(identifier, Separator)
	if len(parts) != 2 {
		return "", "", &MalformedIdentifierError{
			Identifier: identifier,
			Reason:     fmt.Sprintf("expected exactly one '%s' separator, found %d", Separator, len(parts)-1),
		}
	}
	return parts[0], parts[1], nil
}

// ParseAny parses an identifier held in an untyped value, e.g. decoded from
// configuration. Values that are not strings are malformed.
func ParseAny(v any) (group, name string, err error) {
	s, ok := v.(string)
	if !ok {
		return "", "", &MalformedIdentifierError{
			Identifier: fmt.Sprintf("%v", v),
			Reason:     fmt.Sprintf("identifier must be a string, got %T", v),
		}
	}
	return Parse(s)
}

// IsValid reports whether identifier parses and names a group known to the catalog.
// Whether the name is registered in that group is not checked.
func IsValid(identifier string, catalog *Catalog) bool {
	group, _, err := Parse(identifier)
	if err != nil {
		return false
	}
	return catalog.Has(group)
}

// Qualify turns a FULL or PARTIAL identifier into its group and name, restoring
// GroupPrefix for PARTIAL identifiers. MINIMAL identifiers are malformed here.
func Qualify(identifier string) (group, name string, err error) {
	group, name, err = Parse(identifier)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(group, GroupPrefix) {
		group = GroupPrefix + group
	}
	return group, name, nil
}
