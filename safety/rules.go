package safety

import "strings"

// Enumeration of rule danger levels.  LevelNone marks a violation carrying no
// risk tier.
const (
	LevelNone = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelCritical
)

// LevelRepr returns the display name of a danger level.
func LevelRepr(level int) string {
	switch level {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "NONE"
	}
}

// Enumeration of operation categories.  CategoryNone marks a violation
// carrying no category.
const (
	CategoryNone = iota
	CategoryMemory
	CategoryProcessInjection
	CategoryKernel
	CategoryRegistry
	CategoryFileSystem
	CategoryNetwork
	CategoryCrypto
	CategorySystemConfig
)

// CategoryRepr returns the display name of an operation category.
func CategoryRepr(category int) string {
	switch category {
	case CategoryMemory:
		return "MEMORY_MANAGEMENT"
	case CategoryProcessInjection:
		return "PROCESS_INJECTION"
	case CategoryKernel:
		return "KERNEL_OPERATION"
	case CategoryRegistry:
		return "REGISTRY_WRITE"
	case CategoryFileSystem:
		return "FILE_SYSTEM"
	case CategoryNetwork:
		return "NETWORK"
	case CategoryCrypto:
		return "CRYPTOGRAPHY"
	case CategorySystemConfig:
		return "SYSTEM_CONFIG"
	default:
		return "NONE"
	}
}

// Rule describes the safety policy for a single dangerous operation.
type Rule struct {
	// The operation name the rule applies to.  This may be a bare name
	// (eg. `alloc`) or a dotted path (eg. `kernel32.WriteProcessMemory`).
	Op string

	// The category of the operation.
	Category int

	// The danger level of the operation.
	Level int

	// Whether the operation is permitted at all in safe mode.
	SafeModeAllowed bool

	// Whether uses of the operation must be recorded in the audit log.
	RequiresLogging bool

	// Whether arguments to the operation require validation before use.
	RequiresValidation bool

	// A short human-readable description of the danger.
	Description string

	// A safer alternative suggested when the operation is flagged, if one
	// exists.
	Alternative string
}

// RuleSet is an immutable collection of safety rules.  A rule set is built
// once and then shared by value reference between checkers: checkers never
// mutate it.
type RuleSet struct {
	rules map[string]*Rule
}

// Lookup finds the rule governing the given operation name.  Exact matches
// are preferred; otherwise, a rule matches if its operation is a dotted
// suffix of the name: eg. the rule `kernel32.VirtualAlloc` matches the call
// `win.kernel32.VirtualAlloc`.  The longest matching suffix wins.  Lookup
// returns nil if no rule governs the operation.
func (rs *RuleSet) Lookup(name string) *Rule {
	if rule, ok := rs.rules[name]; ok {
		return rule
	}

	var best *Rule
	for op, rule := range rs.rules {
		if strings.HasSuffix(name, "."+op) {
			if best == nil || len(rule.Op) > len(best.Op) {
				best = rule
			}
		}
	}

	return best
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// NewRuleSet builds a rule set from the given rules.
func NewRuleSet(rules []*Rule) *RuleSet {
	rs := &RuleSet{rules: make(map[string]*Rule, len(rules))}
	for _, rule := range rules {
		rs.rules[rule.Op] = rule
	}

	return rs
}

// -----------------------------------------------------------------------------

// dangerousAPIs lists the Windows API routines which are considered dangerous
// regardless of which system module they are reached through.
var dangerousAPIs = []string{
	"VirtualAlloc",
	"VirtualFree",
	"VirtualProtect",
	"WriteProcessMemory",
	"ReadProcessMemory",
	"CreateRemoteThread",
	"QueueUserAPC",
	"SetWindowsHookEx",
	"NtAllocateVirtualMemory",
	"NtWriteVirtualMemory",
	"NtCreateThread",
}

// systemModules lists the system modules the dangerous API rules are
// generated for.
var systemModules = []string{"kernel32", "ntdll", "user32"}

// DefaultRules is the built-in safety rule database.  It is constructed once
// at startup and must never be mutated: checkers receive it (or a custom rule
// set) as an explicit argument.
var DefaultRules = newDefaultRules()

func newDefaultRules() *RuleSet {
	rules := []*Rule{
		// Memory management.  Manual memory operations are never permitted in
		// safe mode: safe code relies on the runtime's automatic management.
		{Op: "alloc", Category: CategoryMemory, Level: LevelHigh, RequiresValidation: true,
			Description: "manual heap allocation",
			Alternative: "use automatic memory management"},
		{Op: "free", Category: CategoryMemory, Level: LevelHigh, RequiresValidation: true,
			Description: "manual heap release"},
		{Op: "realloc", Category: CategoryMemory, Level: LevelHigh, RequiresValidation: true,
			Description: "manual heap reallocation"},
		{Op: "memcpy", Category: CategoryMemory, Level: LevelMedium, RequiresValidation: true,
			Description: "raw memory copy",
			Alternative: "use safe array and slice operations"},
		{Op: "memmove", Category: CategoryMemory, Level: LevelMedium, RequiresValidation: true,
			Description: "raw memory move"},

		// Process manipulation.
		{Op: "kernel32.OpenProcess", Category: CategoryProcessInjection, Level: LevelHigh,
			RequiresLogging: true,
			Description:     "opens a handle to a foreign process"},
		{Op: "kernel32.WriteProcessMemory", Category: CategoryProcessInjection, Level: LevelCritical,
			RequiresLogging: true, RequiresValidation: true,
			Description: "writes into a foreign process address space"},
		{Op: "kernel32.ReadProcessMemory", Category: CategoryProcessInjection, Level: LevelHigh,
			RequiresLogging: true,
			Description:     "reads a foreign process address space"},
		{Op: "kernel32.CreateRemoteThread", Category: CategoryProcessInjection, Level: LevelCritical,
			RequiresLogging: true, RequiresValidation: true,
			Description: "starts a thread in a foreign process"},
		{Op: "inject_dll", Category: CategoryProcessInjection, Level: LevelCritical,
			RequiresLogging: true, RequiresValidation: true,
			Description: "injects a DLL into a foreign process"},
		{Op: "inject_shellcode", Category: CategoryProcessInjection, Level: LevelCritical,
			RequiresLogging: true, RequiresValidation: true,
			Description: "injects raw shellcode into a foreign process"},

		// Kernel-mode operations.
		{Op: "DriverEntry", Category: CategoryKernel, Level: LevelCritical, RequiresValidation: true,
			Description: "kernel driver entry point"},
		{Op: "IoCreateDevice", Category: CategoryKernel, Level: LevelCritical, RequiresValidation: true,
			Description: "creates a kernel device object"},
		{Op: "IoCreateSymbolicLink", Category: CategoryKernel, Level: LevelHigh, RequiresValidation: true,
			Description: "creates a kernel symbolic link"},
		{Op: "ExAllocatePoolWithTag", Category: CategoryKernel, Level: LevelHigh, RequiresValidation: true,
			Description: "allocates kernel pool memory"},

		// Registry access.  Writes and value deletion are routine enough to
		// permit in safe mode under audit logging; deleting whole keys is not.
		{Op: "registry.write", Category: CategoryRegistry, Level: LevelMedium,
			SafeModeAllowed: true, RequiresLogging: true,
			Description: "writes a registry value"},
		{Op: "registry.create_key", Category: CategoryRegistry, Level: LevelMedium,
			SafeModeAllowed: true, RequiresLogging: true,
			Description: "creates a registry key"},
		{Op: "registry.delete_key", Category: CategoryRegistry, Level: LevelHigh,
			RequiresLogging: true, RequiresValidation: true,
			Description: "deletes a registry key"},
		{Op: "registry.delete_value", Category: CategoryRegistry, Level: LevelMedium,
			SafeModeAllowed: true, RequiresLogging: true,
			Description: "deletes a registry value"},

		// File system.
		{Op: "fs.delete", Category: CategoryFileSystem, Level: LevelMedium,
			SafeModeAllowed: true, RequiresLogging: true,
			Description: "deletes a file"},
		{Op: "fs.write_system", Category: CategoryFileSystem, Level: LevelHigh,
			RequiresLogging: true, RequiresValidation: true,
			Description: "writes into a system directory"},
		{Op: "fs.modify_permissions", Category: CategoryFileSystem, Level: LevelHigh,
			RequiresLogging: true,
			Description:     "changes file permissions"},

		// Networking.
		{Op: "net.listen", Category: CategoryNetwork, Level: LevelMedium,
			SafeModeAllowed: true, RequiresLogging: true,
			Description: "opens a listening socket"},
		{Op: "net.raw_socket", Category: CategoryNetwork, Level: LevelHigh, RequiresValidation: true,
			Description: "opens a raw socket"},

		// Cryptography.
		{Op: "crypto.weak_algorithm", Category: CategoryCrypto, Level: LevelMedium,
			SafeModeAllowed: true, RequiresLogging: true,
			Description: "uses a cryptographically weak algorithm",
			Alternative: "use a modern algorithm (AES, ChaCha20)"},

		// System state.
		{Op: "system.set_time", Category: CategorySystemConfig, Level: LevelHigh,
			RequiresValidation: true,
			Description:        "changes the system clock"},
		{Op: "system.shutdown", Category: CategorySystemConfig, Level: LevelHigh,
			RequiresValidation: true,
			Description:        "shuts down or restarts the system"},
	}

	rs := NewRuleSet(rules)

	// Generate a rule for every dangerous API through every system module.
	// Explicitly listed operations keep their hand-tuned rules.
	for _, mod := range systemModules {
		for _, api := range dangerousAPIs {
			op := mod + "." + api
			if _, ok := rs.rules[op]; !ok {
				rs.rules[op] = &Rule{
					Op:                 op,
					Category:           wildcardCategory(api),
					Level:              wildcardLevel(api),
					RequiresLogging:    true,
					RequiresValidation: true,
					Description:        "dangerous system API",
				}
			}
		}
	}

	return rs
}

// wildcardCategory classifies a generated dangerous API rule.
func wildcardCategory(api string) int {
	if strings.Contains(api, "Alloc") || strings.Contains(api, "Virtual") {
		return CategoryMemory
	}

	return CategoryProcessInjection
}

// wildcardLevel assigns the risk tier of a generated dangerous API rule.
func wildcardLevel(api string) int {
	if strings.Contains(api, "Write") || strings.Contains(api, "Create") ||
		strings.Contains(api, "Thread") {
		return LevelCritical
	}

	return LevelHigh
}
