package entrypoint

import "strings"

const (
	// GroupPrefix is the reserved namespace prefix of every entry point group.
	GroupPrefix = "ns."
	// Separator joins the group and name parts of an identifier.
	Separator = ":"
)

// EntryPointFormat classifies the shape of an identifier string.
type EntryPointFormat int

const (
	// FormatInvalid is never produced by DetectFormat; Format rejects it.
	FormatInvalid EntryPointFormat = iota
	// FormatFull is the prefixed group plus name: ns.calculations:job
	FormatFull
	// FormatPartial is the unprefixed group plus name: calculations:job
	FormatPartial
	// FormatMinimal is the name alone: job
	FormatMinimal
)

// String returns a human-readable representation of the format.
func (f EntryPointFormat) String() string {
	switch f {
	case FormatInvalid:
		return "invalid"
	case FormatFull:
		return "full"
	case FormatPartial:
		return "partial"
	case FormatMinimal:
		return "minimal"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name as produced by String back to its tag.
func ParseFormat(s string) (EntryPointFormat, error) {
	switch strings.ToLower(s) {
	case "full":
		return FormatFull, nil
	case "partial":
		return FormatPartial, nil
	case "minimal":
		return FormatMinimal, nil
	default:
		return FormatInvalid, &InvalidArgumentError{Argument: "format", Value: s}
	}
}

// Format builds the identifier string for group and name in the requested format.
// For FormatPartial the group is expected to carry GroupPrefix.
func Format(group, name string, fmt EntryPointFormat) (string, error) {
	switch fmt {
	case FormatFull:
		return group + Separator + name, nil
	case FormatPartial:
		return strings.TrimPrefix(group, GroupPrefix) + Separator + name, nil
	case FormatMinimal:
		return name, nil
	case FormatInvalid:
		return "", &InvalidArgumentError{Argument: "format", Value: fmt}
	default:
		return "", &InvalidArgumentError{Argument: "format", Value: int(fmt)}
	}
}

// DetectFormat determines the format of an identifier from its structure alone.
// The result says nothing about whether the group or name are registered.
func DetectFormat(identifier string) EntryPointFormat {
	parts := strings.Split(identifier, Separator)
	if len(parts) != 2 {
		return FormatMinimal
	}
	if strings.HasPrefix(parts[0], GroupPrefix) {
		return FormatFull
	}
	return FormatPartial
}
