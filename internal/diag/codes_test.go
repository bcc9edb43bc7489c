package diag

import "testing"

func TestLookupKind(t *testing.T) {
	tests := []struct {
		kind string
		want Code
		ok   bool
	}{
		{"InvalidRead", MemInvalidRead, true},
		{"Leak_DefinitelyLost", MemLeakDefinitelyLost, true},
		{"Race", HelRace, true},
		{"ConflictingAccess", DrdConflictingAccess, true},
		{"PthAPIerror", HelPthAPIError, true},
		{"invalidread", UnknownCode, false},
		{"", UnknownCode, false},
		{"SomethingNew", UnknownCode, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, ok := LookupKind(tt.kind)
			if ok != tt.ok || got != tt.want {
				t.Errorf("LookupKind(%q) = %v, %v; want %v, %v", tt.kind, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		id   string
		tool string
	}{
		{MemInvalidRead, "MEM1003", "memcheck"},
		{HelLockOrder, "HEL2006", "helgrind"},
		{DrdMutexErr, "DRD3002", "drd"},
		{RepMalformed, "REP4001", "report"},
		{UnknownCode, "E0000", "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.id)
		}
		if got := tt.code.Tool(); got != tt.tool {
			t.Errorf("%d.Tool() = %q, want %q", tt.code, got, tt.tool)
		}
	}
}

func TestRulesRoundTrip(t *testing.T) {
	rules := Rules()
	if len(rules) == 0 {
		t.Fatal("empty rule catalog")
	}
	for i, code := range rules {
		if i > 0 && rules[i-1] >= code {
			t.Fatalf("rules not sorted at %d", i)
		}
		kind := code.Kind()
		if kind == "" {
			t.Fatalf("%s has no kind", code.ID())
		}
		back, ok := LookupKind(kind)
		if !ok || back != code {
			t.Errorf("LookupKind(%q) = %v, want %v", kind, back, code)
		}
	}
}

func TestDefaultSeverity(t *testing.T) {
	if MemLeakStillReachable.DefaultSeverity() != SevInfo {
		t.Error("still reachable should be informational")
	}
	if MemLeakPossiblyLost.DefaultSeverity() != SevWarning {
		t.Error("possibly lost should be a warning")
	}
	if MemInvalidWrite.DefaultSeverity() != SevError {
		t.Error("invalid write should be an error")
	}
	if Code(9999).Title() != UnknownCode.Title() {
		t.Error("unknown codes should fall back to the unknown title")
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"info": SevInfo, "WARNING": SevWarning, "warn": SevWarning, " error ": SevError} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}
