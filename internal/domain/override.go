package domain

import "fmt"

// OverrideKind tags which variant an Override carries.
type OverrideKind int

const (
	OverrideNone OverrideKind = iota
	OverrideDayStatus
	OverrideLocation
)

func (k OverrideKind) String() string {
	switch k {
	case OverrideDayStatus:
		return "day-status"
	case OverrideLocation:
		return "location"
	default:
		return "none"
	}
}

// Override is the explicit status carried by an adjustment:
// DayStatus(code) | Location(code) | None. Both at once cannot be expressed.
type Override struct {
	Kind OverrideKind
	Code StatusCode
}

// NoOverride is the zero Override.
var NoOverride = Override{}

func DayStatusOverride(code StatusCode) Override {
	return Override{Kind: OverrideDayStatus, Code: code}
}

func LocationOverride(code StatusCode) Override {
	return Override{Kind: OverrideLocation, Code: code}
}

// OverrideFromCode classifies a persisted status_override value.
// An empty code yields NoOverride.
func OverrideFromCode(code StatusCode) (Override, error) {
	switch {
	case code == "":
		return NoOverride, nil
	case code.IsLocation():
		return LocationOverride(code), nil
	case code.IsNonWorking():
		return DayStatusOverride(code), nil
	}
	return NoOverride, fmt.Errorf("unknown status override %q", code)
}

func (o Override) IsSet() bool { return o.Kind != OverrideNone }

// StoredCode is the value written to the status_override column.
func (o Override) StoredCode() StatusCode {
	if o.Kind == OverrideNone {
		return ""
	}
	return o.Code
}
