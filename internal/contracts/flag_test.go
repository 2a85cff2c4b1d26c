package contracts

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFlagValues(t *testing.T) {
	tests := []struct {
		flag Flag
		want int
		name string
	}{
		{FlagRed, 0, "RED"},
		{FlagGreen, 1, "GREEN"},
		{FlagAmber, 2, "AMBER"},
		{FlagMediumRisk, 3, "MEDIUM_RISK"},
		{FlagWhite, 4, "WHITE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.flag) != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, int(tt.flag), tt.want)
			}
			if tt.flag.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.flag.String(), tt.name)
			}
			if !tt.flag.IsValid() {
				t.Errorf("%s should be valid", tt.name)
			}

		})
	}
}

func TestFlagUnknown(t *testing.T) {
	if Flag(9).IsValid() {
		t.Error("Flag(9) should not be valid")
	}
	if Flag(9).String() != "Flag(9)" {
		t.Errorf("unexpected String(): %s", Flag(9).String())
	}
	if Flag(-1).IsValid() {
		t.Error("Flag(-1) should not be valid")
	}
}

func TestFlagResultJSON(t *testing.T) {
	result := NewFlagResult(FlagGreen, FlagAmber, FlagRed)

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]map[string]int
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := map[string]int{
		TotalRevenue5CrFlag:    1,
		BorrowingToRevenueFlag: 2,
		ISCRFlag:               0,
	}
	if len(decoded) != 1 || len(decoded["flags"]) != len(want) {
		t.Fatalf("unexpected shape: %s", raw)
	}
	for k, v := range want {
		if decoded["flags"][k] != v {
			t.Errorf("flags[%s] = %d, want %d", k, decoded["flags"][k], v)
		}
	}
}

func TestCountByFlag(t *testing.T) {
	counts := NewFlagResult(FlagRed, FlagRed, FlagGreen).CountByFlag()

	if counts[FlagRed] != 2 || counts[FlagGreen] != 1 || counts[FlagAmber] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(ErrInvalidInput, "decode", cause)

	if !IsKind(err, ErrInvalidInput) || !errors.Is(err, cause) {
		t.Errorf("wrapped error lost its chain: %v", err)
	}
	if IsKind(err, ErrInvalidDocument) {
		t.Error("unexpected kind match")
	}
	if WrapError(ErrInvalidInput, "decode", nil) != nil {
		t.Error("WrapError(nil) should be nil")
	}
}
