package safety

import (
	"bufio"
	"strings"
	"testing"

	"aegisc/syntax"
)

// checkSrc runs the safety checker over the given source text.
func checkSrc(t *testing.T, src string, mode int, overrides map[string]bool) *Checker {
	t.Helper()

	p := syntax.NewParser("test.ae", "test.ae", bufio.NewReader(strings.NewReader(src)))
	file, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}

	c := NewChecker(DefaultRules, mode, overrides)
	c.CheckFile(file)
	return c
}

func TestSafeModeBlocksCritical(t *testing.T) {
	src := "func attack(h: handle):\n" +
		"    kernel32.CreateRemoteThread(h)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	if c.ErrorCount() != 1 {
		t.Fatalf("expected 1 error in safe mode, got %d", c.ErrorCount())
	}

	if c.Stats().Blocked != 1 {
		t.Errorf("expected 1 blocked operation, got %d", c.Stats().Blocked)
	}
}

func TestUnsafeModeWarnsInsteadOfBlocking(t *testing.T) {
	src := "func attack(h: handle):\n" +
		"    kernel32.CreateRemoteThread(h)\n"

	c := checkSrc(t, src, ModeUnsafe, nil)

	if c.ErrorCount() != 0 {
		t.Fatalf("expected no errors in unsafe mode, got %d", c.ErrorCount())
	}

	warned := false
	for _, v := range c.Violations() {
		if v.Severity == SeverityWarning {
			warned = true
		}
	}

	if !warned {
		t.Error("expected a warning for a critical operation in unsafe mode")
	}
}

func TestSuffixMatching(t *testing.T) {
	src := "func probe():\n" +
		"    win.api.kernel32.VirtualAlloc(4096)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	if c.Stats().Dangerous != 1 {
		t.Errorf("expected the dotted path to match by suffix, dangerous = %d", c.Stats().Dangerous)
	}

	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", c.ErrorCount())
	}
}

func TestSafeModeBlocksManualMemory(t *testing.T) {
	src := "func setup():\n" +
		"    alloc(64)\n" +
		"    memcpy(1, 2, 3)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	// Manual memory operations are never permitted in safe mode.
	if c.ErrorCount() != 2 {
		t.Fatalf("expected 2 errors in safe mode, got %d", c.ErrorCount())
	}

	if c.Stats().Blocked != 2 {
		t.Errorf("expected 2 blocked operations, got %d", c.Stats().Blocked)
	}
}

func TestSafeModePermitsRegistryWrites(t *testing.T) {
	src := "func configure():\n" +
		"    registry.write(1)\n" +
		"    registry.create_key(2)\n" +
		"    registry.delete_value(3)\n" +
		"    registry.delete_key(4)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	// Only deleting a whole key is blocked; the rest are logged.
	if c.ErrorCount() != 1 {
		t.Fatalf("expected 1 error, got %d", c.ErrorCount())
	}

	if c.Stats().Logged != 4 {
		t.Errorf("expected 4 logged operations, got %d", c.Stats().Logged)
	}
}

func TestSafeModeAllowedWithLogging(t *testing.T) {
	src := "func setup():\n" +
		"    net.listen(8080)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	if c.ErrorCount() != 0 {
		t.Fatalf("expected net.listen to be allowed in safe mode, got %d errors", c.ErrorCount())
	}

	if c.Stats().Logged != 1 {
		t.Errorf("expected 1 logged operation, got %d", c.Stats().Logged)
	}

	if len(c.Violations()) != 1 || c.Violations()[0].Severity != SeverityInfo {
		t.Error("expected a single info notice for the logged operation")
	}
}

func TestUnsafeDecoratorScopesRelaxation(t *testing.T) {
	src := "@unsafe\n" +
		"func low_level(h: handle):\n" +
		"    kernel32.WriteProcessMemory(h)\n" +
		"\n" +
		"func normal(h: handle):\n" +
		"    kernel32.WriteProcessMemory(h)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	// Only the call in the undecorated function is blocked.
	if c.ErrorCount() != 1 {
		t.Errorf("expected exactly 1 error, got %d", c.ErrorCount())
	}
}

func TestFileLevelSafetyDecorator(t *testing.T) {
	src := "@safety_level(mode: UNSAFE)\n" +
		"module demo\n" +
		"\n" +
		"func attack(h: handle):\n" +
		"    kernel32.CreateRemoteThread(h)\n"

	c := checkSrc(t, src, ModeSafe, nil)

	if c.ErrorCount() != 0 {
		t.Errorf("expected the file decorator to switch the file to unsafe mode, got %d errors", c.ErrorCount())
	}
}

func TestUnknownSafetyMode(t *testing.T) {
	src := "@safety_level(mode: PARANOID)\n" +
		"module demo\n" +
		"\n" +
		"func nop():\n" +
		"    pass\n"

	c := checkSrc(t, src, ModeSafe, nil)

	if c.ErrorCount() != 1 {
		t.Errorf("expected an error for an unknown safety mode, got %d", c.ErrorCount())
	}
}

func TestCustomModeOverrides(t *testing.T) {
	src := "func worker(h: handle):\n" +
		"    kernel32.WriteProcessMemory(h)\n" +
		"    kernel32.ReadProcessMemory(h)\n"

	overrides := map[string]bool{
		"kernel32.WriteProcessMemory": true,
		"kernel32.ReadProcessMemory":  false,
	}

	c := checkSrc(t, src, ModeCustom, overrides)

	if c.ErrorCount() != 1 {
		t.Fatalf("expected only the denied operation to error, got %d errors", c.ErrorCount())
	}

	if c.Violations()[0].Op != "kernel32.ReadProcessMemory" &&
		c.Violations()[len(c.Violations())-1].Op != "kernel32.ReadProcessMemory" {
		t.Error("expected the error to involve kernel32.ReadProcessMemory")
	}
}

func TestPointerGatingInSafeMode(t *testing.T) {
	src := "struct Buffer:\n" +
		"    data: ptr\n" +
		"    size: u64\n" +
		"\n" +
		"func peek(p: ptr) -> ptr:\n" +
		"    return p\n"

	c := checkSrc(t, src, ModeSafe, nil)

	// One error for the struct field, one for the parameter, one for the
	// return type.
	if c.ErrorCount() != 3 {
		t.Errorf("expected 3 pointer errors in safe mode, got %d", c.ErrorCount())
	}

	if checkSrc(t, src, ModeUnsafe, nil).ErrorCount() != 0 {
		t.Error("expected no pointer errors in unsafe mode")
	}
}

func TestHookRequiresEvent(t *testing.T) {
	src := "@hook\n" +
		"func on_start():\n" +
		"    pass\n"

	c := checkSrc(t, src, ModeUnsafe, nil)

	if c.ErrorCount() != 1 {
		t.Errorf("expected an error for @hook without an event, got %d", c.ErrorCount())
	}

	srcOK := "@hook(event: \"process_start\")\n" +
		"func on_start():\n" +
		"    pass\n"

	if checkSrc(t, srcOK, ModeUnsafe, nil).ErrorCount() != 0 {
		t.Error("expected @hook with an event to pass")
	}
}

func TestHookRejectsUnknownEvent(t *testing.T) {
	src := "@hook(event: \"keyboard_explosion\")\n" +
		"func on_key():\n" +
		"    pass\n"

	c := checkSrc(t, src, ModeUnsafe, nil)

	if c.ErrorCount() != 1 {
		t.Errorf("expected an error for an unknown hook event, got %d", c.ErrorCount())
	}
}

func TestViolationCarriesRuleDetail(t *testing.T) {
	src := "func setup():\n" +
		"    alloc(64)\n"

	c := checkSrc(t, src, ModeSafe, nil)
	if len(c.Violations()) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(c.Violations()))
	}

	v := c.Violations()[0]
	if v.Category != CategoryMemory {
		t.Errorf("expected the memory management category, got %s", CategoryRepr(v.Category))
	}

	if v.Risk != LevelHigh {
		t.Errorf("expected a HIGH risk tier, got %s", LevelRepr(v.Risk))
	}

	if v.Suggestion == "" {
		t.Error("expected the rule's alternative to be suggested")
	}

	detail := v.Detail()
	for _, fragment := range []string{"MEMORY_MANAGEMENT", "HIGH", "suggestion:"} {
		if !strings.Contains(detail, fragment) {
			t.Errorf("expected the rendered detail to contain %q", fragment)
		}
	}
}

func TestServiceWarnsInSafeMode(t *testing.T) {
	src := "@service\n" +
		"func svc_main():\n" +
		"    pass\n"

	c := checkSrc(t, src, ModeSafe, nil)

	warned := false
	for _, v := range c.Violations() {
		if v.Severity == SeverityWarning {
			warned = true
		}
	}

	if !warned {
		t.Error("expected a warning for @service in safe mode")
	}
}

func TestWildcardRuleGeneration(t *testing.T) {
	for _, name := range []string{
		"ntdll.NtWriteVirtualMemory",
		"user32.SetWindowsHookEx",
		"kernel32.QueueUserAPC",
	} {
		if DefaultRules.Lookup(name) == nil {
			t.Errorf("expected a generated rule for %s", name)
		}
	}
}
