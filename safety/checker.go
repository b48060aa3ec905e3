package safety

import (
	"fmt"
	"strings"

	"aegisc/ast"
	"aegisc/report"
)

// Enumeration of safety modes.
const (
	ModeSafe = iota
	ModeUnsafe
	ModeCustom
)

// modeNames maps safety mode names as written in source and configuration to
// their enumerated values.
var modeNames = map[string]int{
	"SAFE":   ModeSafe,
	"UNSAFE": ModeUnsafe,
	"CUSTOM": ModeCustom,
	"safe":   ModeSafe,
	"unsafe": ModeUnsafe,
	"custom": ModeCustom,
}

// ParseMode converts a safety mode name to its enumerated value.
func ParseMode(name string) (int, bool) {
	mode, ok := modeNames[name]
	return mode, ok
}

// ModeRepr returns the canonical display name of a safety mode.
func ModeRepr(mode int) string {
	switch mode {
	case ModeSafe:
		return "SAFE"
	case ModeUnsafe:
		return "UNSAFE"
	default:
		return "CUSTOM"
	}
}

// -----------------------------------------------------------------------------

// Enumeration of violation severities.
const (
	SeverityInfo = iota
	SeverityWarning
	SeverityError
)

// Violation is a single finding produced by the safety checker.
type Violation struct {
	// The severity of the violation.
	Severity int

	// The message describing the violation.
	Message string

	// The span of the offending source text.
	Span *report.TextSpan

	// The dangerous operation involved, if any.
	Op string

	// The category of the operation, or CategoryNone.
	Category int

	// The risk tier of the operation, or LevelNone.
	Risk int

	// A suggested remediation, if one exists.
	Suggestion string
}

// Detail renders the violation's message together with its suggestion,
// category, and risk tier where present.
func (v *Violation) Detail() string {
	sb := &strings.Builder{}
	sb.WriteString(v.Message)

	if v.Suggestion != "" {
		fmt.Fprintf(sb, "\n  suggestion: %s", v.Suggestion)
	}

	if v.Category != CategoryNone {
		fmt.Fprintf(sb, "\n  category: %s", CategoryRepr(v.Category))
	}

	if v.Risk != LevelNone {
		fmt.Fprintf(sb, "\n  risk: %s", LevelRepr(v.Risk))
	}

	return sb.String()
}

// Stats aggregates counters over a single safety checking run.
type Stats struct {
	// The total number of call sites examined.
	Total int

	// The number of call sites governed by a safety rule.
	Dangerous int

	// The number of call sites whose rule requires audit logging.
	Logged int

	// The number of call sites blocked with an error.
	Blocked int
}

// -----------------------------------------------------------------------------

// HookEvents is the set of event names accepted by the @hook decorator.
var HookEvents = map[string]struct{}{
	"process_start":  {},
	"process_exit":   {},
	"thread_start":   {},
	"thread_exit":    {},
	"dll_load":       {},
	"dll_unload":     {},
	"window_create":  {},
	"window_destroy": {},
	"key_press":      {},
	"mouse_click":    {},
}

// -----------------------------------------------------------------------------

// Checker performs safety analysis over a parsed source file.  The rule set
// is supplied at construction and never mutated; the active safety mode is
// threaded through the walk as an explicit parameter so that `@unsafe`
// functions cannot leak their mode into surrounding code.
type Checker struct {
	rules *RuleSet

	// The safety mode requested by the build configuration.  A file-level
	// `@safety_level` decorator overrides it for that file.
	defaultMode int

	// The custom-mode override table: operation name to allowed/denied.
	overrides map[string]bool

	violations []*Violation
	stats      Stats
}

// NewChecker creates a new safety checker over the given rule set.  The
// overrides table may be nil when the mode is not ModeCustom.
func NewChecker(rules *RuleSet, mode int, overrides map[string]bool) *Checker {
	return &Checker{
		rules:       rules,
		defaultMode: mode,
		overrides:   overrides,
	}
}

// Violations returns the findings accumulated so far.
func (c *Checker) Violations() []*Violation {
	return c.violations
}

// Stats returns the aggregate counters for the checking run.
func (c *Checker) Stats() Stats {
	return c.stats
}

// ErrorCount returns the number of error-severity findings.
func (c *Checker) ErrorCount() int {
	n := 0
	for _, v := range c.violations {
		if v.Severity == SeverityError {
			n++
		}
	}

	return n
}

// -----------------------------------------------------------------------------

// CheckFile checks a whole source file and returns the file's effective
// safety mode.
func (c *Checker) CheckFile(file *ast.File) int {
	fileMode := c.defaultMode

	// A file-level @safety_level decorator overrides the configured mode.
	for _, decor := range file.Decorators {
		if decor.Name == "safety_level" {
			name, ok := decor.GetArg("mode")
			if !ok {
				c.add(SeverityError, decor.Span(), "", "@safety_level requires a `mode` argument")
				continue
			}

			if mode, ok := ParseMode(name); ok {
				fileMode = mode
			} else {
				c.add(SeverityError, decor.Span(), "", "unknown safety mode: `%s`", name)
			}
		}
	}

	for _, def := range file.Defs {
		switch d := def.(type) {
		case *ast.FuncDef:
			c.checkFuncDef(d, fileMode)
		case *ast.StructDef:
			c.checkStructDef(d, fileMode)
		}
	}

	return fileMode
}

// checkFuncDef checks a single function definition.
func (c *Checker) checkFuncDef(fd *ast.FuncDef, fileMode int) {
	mode := fileMode

	// An @unsafe function body is checked in unsafe mode regardless of the
	// file's mode.  The relaxation is scoped to this definition only.
	if ast.HasDecorator(fd.Decorators, "unsafe") {
		mode = ModeUnsafe
	}

	for _, decor := range fd.Decorators {
		switch decor.Name {
		case "hook":
			event, ok := decor.GetArg("event")
			if !ok || event == "" {
				c.add(SeverityError, decor.Span(), "", "@hook requires a non-empty `event` argument")
			} else if _, known := HookEvents[event]; !known {
				c.add(SeverityError, decor.Span(), "", "unknown hook event: `%s`", event)
			}
		case "service":
			if fileMode == ModeSafe {
				c.add(SeverityWarning, decor.Span(), "",
					"service entry point `%s` declared in safe mode", fd.Name)
			}
		}
	}

	// Raw pointers crossing the function boundary are rejected in safe mode.
	if mode == ModeSafe {
		markUnsafe := fmt.Sprintf("mark `%s` with @unsafe", fd.Name)

		for _, param := range fd.Params {
			if isPointerLabel(param.Type) {
				c.addPointerError(param.Type.Span(), markUnsafe,
					"raw pointer parameter `%s` is not permitted in safe mode", param.Name)
			}
		}

		if fd.ReturnType != nil && isPointerLabel(fd.ReturnType) {
			c.addPointerError(fd.ReturnType.Span(), markUnsafe,
				"function `%s` cannot return a raw pointer in safe mode", fd.Name)
		}
	}

	c.checkBlock(fd.Body, mode)
}

// checkStructDef checks a struct definition for raw pointer fields.
func (c *Checker) checkStructDef(sd *ast.StructDef, fileMode int) {
	if fileMode != ModeSafe {
		return
	}

	for _, field := range sd.Fields {
		if isPointerLabel(field.Type) {
			c.addPointerError(field.Type.Span(), "use handles or safe wrapper types instead",
				"raw pointer field `%s.%s` is not permitted in safe mode", sd.Name, field.Name)
		}
	}
}

// isPointerLabel returns whether a type label denotes a raw pointer.
func isPointerLabel(label ast.TypeExpr) bool {
	_, ok := label.(*ast.PointerTypeExpr)
	return ok
}

// -----------------------------------------------------------------------------

// checkBlock checks all the statements of a block under the given mode.
func (c *Checker) checkBlock(block *ast.Block, mode int) {
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt, mode)
	}
}

// checkStmt checks a single statement under the given mode.
func (c *Checker) checkStmt(stmt ast.Statement, mode int) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Initializer != nil {
			c.checkExpr(s.Initializer, mode)
		}
	case *ast.Assignment:
		c.checkExpr(s.LHS, mode)
		c.checkExpr(s.RHS, mode)
	case *ast.IfStmt:
		for _, branch := range s.Branches {
			c.checkExpr(branch.Cond, mode)
			c.checkBlock(branch.Body, mode)
		}

		if s.ElseBlock != nil {
			c.checkBlock(s.ElseBlock, mode)
		}
	case *ast.WhileStmt:
		c.checkExpr(s.Cond, mode)
		c.checkBlock(s.Body, mode)
	case *ast.ForStmt:
		c.checkExpr(s.Iterable, mode)
		c.checkBlock(s.Body, mode)
	case *ast.MatchStmt:
		c.checkExpr(s.Subject, mode)
		for _, mc := range s.Cases {
			c.checkExpr(mc.Pattern, mode)
			c.checkBlock(mc.Body, mode)
		}
	case *ast.TryChainStmt:
		c.checkBlock(s.Primary, mode)
		if s.Secondary != nil {
			c.checkBlock(s.Secondary, mode)
		}
		if s.Fallback != nil {
			c.checkBlock(s.Fallback, mode)
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.checkExpr(s.Value, mode)
		}
	case *ast.DeferStmt:
		c.checkExpr(s.Call, mode)
	case *ast.ExprStmt:
		c.checkExpr(s.Expr, mode)
	}
}

// checkExpr checks a single expression under the given mode.
func (c *Checker) checkExpr(expr ast.Expr, mode int) {
	switch e := expr.(type) {
	case *ast.Call:
		c.checkCall(e, mode)
	case *ast.BinaryOp:
		c.checkExpr(e.Lhs, mode)
		c.checkExpr(e.Rhs, mode)
	case *ast.UnaryOp:
		c.checkExpr(e.Operand, mode)
	case *ast.Member:
		c.checkExpr(e.Root, mode)
	case *ast.Index:
		c.checkExpr(e.Root, mode)
		c.checkExpr(e.Subscript, mode)
	case *ast.ArrayLit:
		for _, elem := range e.Elems {
			c.checkExpr(elem, mode)
		}
	case *ast.TupleLit:
		for _, sub := range e.Exprs {
			c.checkExpr(sub, mode)
		}
	}
}

// checkCall checks a call site against the rule database.
func (c *Checker) checkCall(call *ast.Call, mode int) {
	for _, arg := range call.Args {
		c.checkExpr(arg, mode)
	}

	name, ok := calleePath(call.Func)
	if !ok {
		c.checkExpr(call.Func, mode)
		return
	}

	c.stats.Total++

	rule := c.rules.Lookup(name)
	if rule == nil {
		return
	}

	c.stats.Dangerous++
	if rule.RequiresLogging {
		c.stats.Logged++
	}

	c.applyRule(rule, name, call.Span(), mode)
}

// applyRule applies the gating policy for a matched rule under the given
// mode.
func (c *Checker) applyRule(rule *Rule, name string, span *report.TextSpan, mode int) {
	switch mode {
	case ModeSafe:
		if !rule.SafeModeAllowed {
			c.stats.Blocked++

			suggestion := rule.Alternative
			if suggestion == "" {
				suggestion = "mark the enclosing function with @unsafe or build in UNSAFE mode"
			}

			c.addRuled(SeverityError, span, name, rule, suggestion,
				"%s operation `%s` is not permitted in safe mode: %s",
				CategoryRepr(rule.Category), name, rule.Description)
		} else if rule.RequiresLogging {
			c.addRuled(SeverityInfo, span, name, rule, "",
				"operation `%s` will be recorded in the audit log", name)
		}
	case ModeUnsafe:
		if rule.Level >= LevelHigh {
			c.addRuled(SeverityWarning, span, name, rule, rule.Alternative,
				"dangerous operation `%s`: %s", name, rule.Description)
		}

		if rule.RequiresValidation {
			c.addRuled(SeverityInfo, span, name, rule, "",
				"arguments to `%s` should be validated before use", name)
		}
	case ModeCustom:
		allowed, listed := c.overrides[name]
		if !listed {
			allowed, listed = c.overrides[rule.Op]
		}

		if listed {
			if !allowed {
				c.stats.Blocked++
				c.addRuled(SeverityError, span, name, rule, "",
					"operation `%s` is denied by the active safety policy", name)
			}
		} else if !rule.SafeModeAllowed {
			// Operations the policy doesn't mention fall back to the safe
			// mode gating.
			c.stats.Blocked++
			c.addRuled(SeverityError, span, name, rule, rule.Alternative,
				"operation `%s` is not listed in the safety policy: %s", name, rule.Description)
		}
	}
}

// calleePath extracts the dotted path of a call's callee: eg. the expression
// `win.kernel32.OpenProcess` yields "win.kernel32.OpenProcess".  It reports
// false for callees which are not identifier/member chains.
func calleePath(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name, true
	case *ast.Member:
		root, ok := calleePath(e.Root)
		if !ok {
			return "", false
		}

		return root + "." + e.MemberName, true
	}

	return "", false
}

// -----------------------------------------------------------------------------

// add records a new violation not tied to a rule.
func (c *Checker) add(severity int, span *report.TextSpan, op, msg string, args ...interface{}) {
	c.violations = append(c.violations, &Violation{
		Severity: severity,
		Message:  fmt.Sprintf(msg, args...),
		Span:     span,
		Op:       op,
	})
}

// addRuled records a new violation carrying the matched rule's category and
// risk tier.
func (c *Checker) addRuled(severity int, span *report.TextSpan, op string, rule *Rule, suggestion, msg string, args ...interface{}) {
	c.violations = append(c.violations, &Violation{
		Severity:   severity,
		Message:    fmt.Sprintf(msg, args...),
		Span:       span,
		Op:         op,
		Category:   rule.Category,
		Risk:       rule.Level,
		Suggestion: suggestion,
	})
}

// addPointerError records a safe mode raw pointer violation.
func (c *Checker) addPointerError(span *report.TextSpan, suggestion, msg string, args ...interface{}) {
	c.violations = append(c.violations, &Violation{
		Severity:   SeverityError,
		Message:    fmt.Sprintf(msg, args...),
		Span:       span,
		Category:   CategoryMemory,
		Risk:       LevelHigh,
		Suggestion: suggestion,
	})
}

// Report renders a human-readable summary of the checking run.
func (c *Checker) Report() string {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "safety report\n")
	fmt.Fprintf(sb, "  call sites examined: %d\n", c.stats.Total)
	fmt.Fprintf(sb, "  dangerous operations: %d\n", c.stats.Dangerous)
	fmt.Fprintf(sb, "  operations requiring logging: %d\n", c.stats.Logged)
	fmt.Fprintf(sb, "  operations blocked: %d\n", c.stats.Blocked)

	for _, v := range c.violations {
		var label string
		switch v.Severity {
		case SeverityError:
			label = "error"
		case SeverityWarning:
			label = "warning"
		default:
			label = "info"
		}

		if v.Span != nil {
			fmt.Fprintf(sb, "  [%s] %d:%d %s\n", label, v.Span.StartLine+1, v.Span.StartCol+1, v.Detail())
		} else {
			fmt.Fprintf(sb, "  [%s] %s\n", label, v.Detail())
		}
	}

	return sb.String()
}
