package contracts

import "fmt"

// Flag is a categorical risk indicator consumed by underwriting
// ⭐ SSOT: 플래그 값(0~4)은 여기서만 정의
type Flag int

const (
	FlagRed        Flag = 0 // adverse
	FlagGreen      Flag = 1 // favorable
	FlagAmber      Flag = 2 // cautionary
	FlagMediumRisk Flag = 3 // display only, not produced by current rules
	FlagWhite      Flag = 4 // data missing, reserved
)

var flagNames = map[Flag]string{
	FlagRed:        "RED",
	FlagGreen:      "GREEN",
	FlagAmber:      "AMBER",
	FlagMediumRisk: "MEDIUM_RISK",
	FlagWhite:      "WHITE",
}

// String returns the display name of the flag
func (f Flag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// IsValid reports whether f is one of the five defined flags
func (f Flag) IsValid() bool {
	_, ok := flagNames[f]
	return ok
}
