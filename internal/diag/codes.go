package diag

import (
	"fmt"
	"sort"
)

type Code uint16

const (
	// Неизвестное правило: kind отсутствует в каталоге
	UnknownCode Code = 0

	// memcheck
	MemInfo               Code = 1000
	MemInvalidFree        Code = 1001
	MemMismatchedFree     Code = 1002
	MemInvalidRead        Code = 1003
	MemInvalidWrite       Code = 1004
	MemInvalidJump        Code = 1005
	MemOverlap            Code = 1006
	MemInvalidMemPool     Code = 1007
	MemUninitCondition    Code = 1008
	MemUninitValue        Code = 1009
	MemSyscallParam       Code = 1010
	MemClientCheck        Code = 1011
	MemLeakDefinitelyLost Code = 1012
	MemLeakIndirectlyLost Code = 1013
	MemLeakPossiblyLost   Code = 1014
	MemLeakStillReachable Code = 1015
	MemFishyValue         Code = 1016

	// helgrind
	HelInfo           Code = 2000
	HelRace           Code = 2001
	HelUnlockUnlocked Code = 2002
	HelUnlockForeign  Code = 2003
	HelUnlockBogus    Code = 2004
	HelPthAPIError    Code = 2005
	HelLockOrder      Code = 2006
	HelMisc           Code = 2007

	// drd
	DrdInfo              Code = 3000
	DrdConflictingAccess Code = 3001
	DrdMutexErr          Code = 3002
	DrdCondErr           Code = 3003
	DrdCondDestrErr      Code = 3004
	DrdCondRaceErr       Code = 3005
	DrdCondWaitErr       Code = 3006
	DrdSemaphoreErr      Code = 3007
	DrdBarrierErr        Code = 3008
	DrdRwlockErr         Code = 3009
	DrdHoldtimeErr       Code = 3010
	DrdGenericErr        Code = 3011
	DrdInvalidThreadID   Code = 3012
	DrdUnimpHgClReq      Code = 3013
	DrdUnimpDrdClReq     Code = 3014

	// report-level problems (not Valgrind kinds)
	RepInfo      Code = 4000
	RepMalformed Code = 4001
	RepLoadError Code = 4002
)

type rule struct {
	kind  string
	title string
	sev   Severity
}

var (
	codeRules = map[Code]rule{
		UnknownCode:           {"", "Unknown rule", SevWarning},
		MemInfo:               {"", "Memcheck information", SevInfo},
		MemInvalidFree:        {"InvalidFree", "Invalid free/delete/delete[]/realloc", SevError},
		MemMismatchedFree:     {"MismatchedFree", "Mismatched allocation and deallocation functions", SevError},
		MemInvalidRead:        {"InvalidRead", "Invalid read of memory", SevError},
		MemInvalidWrite:       {"InvalidWrite", "Invalid write of memory", SevError},
		MemInvalidJump:        {"InvalidJump", "Jump to an invalid address", SevError},
		MemOverlap:            {"Overlap", "Source and destination overlap in memory copy", SevError},
		MemInvalidMemPool:     {"InvalidMemPool", "Invalid memory pool address", SevError},
		MemUninitCondition:    {"UninitCondition", "Conditional jump depends on uninitialised value", SevError},
		MemUninitValue:        {"UninitValue", "Use of uninitialised value", SevError},
		MemSyscallParam:       {"SyscallParam", "System call parameter points to unaddressable or uninitialised bytes", SevError},
		MemClientCheck:        {"ClientCheck", "Error in client request check", SevError},
		MemLeakDefinitelyLost: {"Leak_DefinitelyLost", "Memory definitely lost", SevError},
		MemLeakIndirectlyLost: {"Leak_IndirectlyLost", "Memory indirectly lost", SevError},
		MemLeakPossiblyLost:   {"Leak_PossiblyLost", "Memory possibly lost", SevWarning},
		MemLeakStillReachable: {"Leak_StillReachable", "Memory still reachable at exit", SevInfo},
		MemFishyValue:         {"FishyValue", "Suspicious argument value (possibly negative size)", SevError},
		HelInfo:               {"", "Helgrind information", SevInfo},
		HelRace:               {"Race", "Possible data race", SevError},
		HelUnlockUnlocked:     {"UnlockUnlocked", "Unlock of an unlocked lock", SevError},
		HelUnlockForeign:      {"UnlockForeign", "Unlock of a lock held by another thread", SevError},
		HelUnlockBogus:        {"UnlockBogus", "Unlock of an invalid lock", SevError},
		HelPthAPIError:        {"PthAPIerror", "Error returned by a pthread function", SevError},
		HelLockOrder:          {"LockOrder", "Lock order violated", SevError},
		HelMisc:               {"Misc", "Miscellaneous threading error", SevWarning},
		DrdInfo:               {"", "DRD information", SevInfo},
		DrdConflictingAccess:  {"ConflictingAccess", "Conflicting memory access", SevError},
		DrdMutexErr:           {"MutexErr", "Mutex misuse", SevError},
		DrdCondErr:            {"CondErr", "Condition variable misuse", SevError},
		DrdCondDestrErr:       {"CondDestrErr", "Destruction of a condition variable in use", SevError},
		DrdCondRaceErr:        {"CondRaceErr", "Race on a condition variable", SevError},
		DrdCondWaitErr:        {"CondWaitErr", "Waiting on a condition variable with mismatched mutexes", SevError},
		DrdSemaphoreErr:       {"SemaphoreErr", "Semaphore misuse", SevError},
		DrdBarrierErr:         {"BarrierErr", "Barrier misuse", SevError},
		DrdRwlockErr:          {"RwlockErr", "Reader-writer lock misuse", SevError},
		DrdHoldtimeErr:        {"HoldtimeErr", "Lock held longer than the configured threshold", SevWarning},
		DrdGenericErr:         {"GenericErr", "Generic thread error", SevError},
		DrdInvalidThreadID:    {"InvalidThreadId", "Invalid thread identifier", SevError},
		DrdUnimpHgClReq:       {"UnimpHgClReq", "Unimplemented Helgrind client request", SevWarning},
		DrdUnimpDrdClReq:      {"UnimpDrdClReq", "Unimplemented DRD client request", SevWarning},
		RepInfo:               {"", "Report information", SevInfo},
		RepMalformed:          {"", "Malformed Valgrind report", SevError},
		RepLoadError:          {"", "Report could not be read", SevError},
	}

	kindCodes = buildKindIndex()
)

func buildKindIndex() map[string]Code {
	idx := make(map[string]Code, len(codeRules))
	for code, r := range codeRules {
		if r.kind != "" {
			idx[r.kind] = code
		}
	}
	return idx
}

// LookupKind resolves a Valgrind error kind to its rule code.
func LookupKind(kind string) (Code, bool) {
	code, ok := kindCodes[kind]
	return code, ok
}

// Rules returns every code that stands for a Valgrind kind, in ascending order.
func Rules() []Code {
	out := make([]Code, 0, len(kindCodes))
	for _, code := range kindCodes {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tool returns the Valgrind tool a code belongs to.
func (c Code) Tool() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "memcheck"
	case ic >= 2000 && ic < 3000:
		return "helgrind"
	case ic >= 3000 && ic < 4000:
		return "drd"
	case ic >= 4000 && ic < 5000:
		return "report"
	}
	return "unknown"
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MEM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("HEL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DRD%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("REP%04d", ic)
	}
	return "E0000"
}

// Kind returns the Valgrind kind string, empty for non-kind codes.
func (c Code) Kind() string {
	return codeRules[c].kind
}

func (c Code) Title() string {
	r, ok := codeRules[c]
	if !ok {
		return codeRules[UnknownCode].title
	}
	return r.title
}

// DefaultSeverity is the severity findings of this rule get.
func (c Code) DefaultSeverity() Severity {
	r, ok := codeRules[c]
	if !ok {
		return codeRules[UnknownCode].sev
	}
	return r.sev
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
