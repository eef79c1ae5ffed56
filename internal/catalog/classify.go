package catalog

import "strings"

// Kind is the family an element code belongs to
type Kind int

const (
	KindUnknown Kind = iota
	KindJump
	KindSpin
	KindStep
	KindChoreo
)

func (k Kind) String() string {
	switch k {
	case KindJump:
		return "jump"
	case KindSpin:
		return "spin"
	case KindStep:
		return "step"
	case KindChoreo:
		return "choreo"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind appear as a name in JSON and YAML
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText reads a kind name; unknown names decode as KindUnknown
func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// Null element codes are called when the attempt does not count
const (
	NoJump   = "NJ"
	NoSpin   = "NS"
	NoStep   = "NSt"
	NoChoreo = "NChSt"
)

// BaseLabel is the value label of a fully rotated jump and of every non-jump element
const BaseLabel = "Base"

var jumpNames = []string{"W", "T", "S", "F", "Lz", "Lo", "Th", "A"}

var spinCodes = map[string]bool{
	NoSpin: true, "U": true, "S": true, "C": true, "Br": true, "H": true, "In": true,
}

var stepCodes = map[string]bool{
	NoStep: true, "StB": true, "St1": true, "St2": true, "St3": true, "St4": true,
}

var choreoCodes = map[string]bool{
	NoChoreo: true, "ChSt": true,
}

// Classify maps a catalog code to its element kind.
// Jumps are a rotation count 1-4 followed by a jump name (2A, 3Lz), or NJ.
func Classify(code string) Kind {
	switch {
	case code == NoJump || isJumpCode(code):
		return KindJump
	case spinCodes[code]:
		return KindSpin
	case stepCodes[code]:
		return KindStep
	case choreoCodes[code]:
		return KindChoreo
	default:
		return KindUnknown
	}
}

func isJumpCode(code string) bool {
	if len(code) < 2 || code[0] < '1' || code[0] > '4' {
		return false
	}
	name := code[1:]
	for _, j := range jumpNames {
		if name == j {
			return true
		}
	}
	return false
}

// IsNull reports whether code is one of the "no element" calls
func IsNull(code string) bool {
	return code == NoJump || code == NoSpin || code == NoStep || code == NoChoreo
}

// NormalizeLabel maps an empty or differently cased base label to BaseLabel
func NormalizeLabel(label string) string {
	if label == "" || strings.EqualFold(label, BaseLabel) {
		return BaseLabel
	}
	return label
}
