package cmd

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"aegisc/ast"
	"aegisc/codegen"
	"aegisc/common"
	"aegisc/report"
	"aegisc/safety"
	"aegisc/sema"
	"aegisc/syntax"
	"aegisc/types"
)

// Compiler represents the overall state and configuration of a compilation.
type Compiler struct {
	// The absolute and representative paths of the source file.
	absPath, reprPath string

	// The path to write the LLVM output to.
	outPath string

	// The kind of output being built: exe, dll, service, or driver.  It only
	// informs output naming; all kinds emit the same IR.
	outKind string

	// The safety mode compilation is gated by.
	safetyMode int

	// The per-operation overrides applied in custom mode.
	overrides map[string]bool
}

// NewCompiler creates a new compiler for a single source file.
func NewCompiler(filePath string) *Compiler {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		absPath = filePath
	}

	return &Compiler{
		absPath:    absPath,
		reprPath:   filePath,
		outKind:    "exe",
		safetyMode: safety.ModeSafe,
	}
}

// Run sequences the compilation stages.  Each stage gates the next: the
// pipeline stops after the first stage that produces errors, once all of that
// stage's diagnostics have been printed.  It returns true if output was
// written.
func (c *Compiler) Run() bool {
	report.LogCompileHeader(common.AegisVersion, common.TargetTriple, safety.ModeRepr(c.safetyMode))

	file, ok := c.parseFile()
	if !ok {
		report.LogFinished(report.ErrorCount(), "", "")
		return false
	}

	if !c.checkSafety(file) {
		report.LogFinished(report.ErrorCount(), "", "")
		return false
	}

	typeMap, ok := c.checkTypes(file)
	if !ok {
		report.LogFinished(report.ErrorCount(), "", "")
		return false
	}

	outPath, ok := c.generate(file, typeMap)
	if !ok {
		report.LogFinished(report.ErrorCount(), "", "")
		return false
	}

	report.LogFinished(0, outPath, c.outKind)
	return true
}

// -----------------------------------------------------------------------------

// parseFile runs the lexing and parsing stage.
func (c *Compiler) parseFile() (*ast.File, bool) {
	report.LogStage("Parsing")

	f, err := os.Open(c.absPath)
	if err != nil {
		report.ReportStdError(c.reprPath, err)
		return nil, false
	}
	defer f.Close()

	p := syntax.NewParser(c.absPath, c.reprPath, bufio.NewReader(f))
	file, perr := p.Parse()
	if perr != nil {
		if cerr, ok := perr.(*report.CompileError); ok {
			report.ReportCompileError(c.absPath, c.reprPath, cerr.Span, cerr.Message)
		} else {
			report.ReportStdError(c.reprPath, perr)
		}

		return nil, false
	}

	if report.LogLevel() == report.LogLevelVerbose {
		fmt.Printf("parsed %d tokens\n", p.TokenCount())
	}

	return file, true
}

// checkSafety runs the safety analysis stage.  Warnings and infos never gate
// the pipeline; errors do.
func (c *Compiler) checkSafety(file *ast.File) bool {
	report.LogStage("Safety Analysis")

	checker := safety.NewChecker(safety.DefaultRules, c.safetyMode, c.overrides)
	checker.CheckFile(file)

	// Detail carries the matched rule's category, risk tier, and suggested
	// remediation alongside the message.
	for _, v := range checker.Violations() {
		switch v.Severity {
		case safety.SeverityError:
			report.ReportCompileError(c.absPath, c.reprPath, v.Span, "%s", v.Detail())
		case safety.SeverityWarning:
			report.ReportCompileWarning(c.absPath, c.reprPath, v.Span, "%s", v.Detail())
		default:
			report.ReportCompileInfo(c.absPath, c.reprPath, v.Span, "%s", v.Detail())
		}
	}

	if report.LogLevel() == report.LogLevelVerbose {
		fmt.Print(checker.Report())
	}

	return checker.ErrorCount() == 0
}

// checkTypes runs the semantic analysis stage.
func (c *Compiler) checkTypes(file *ast.File) (map[ast.ASTNode]*types.Type, bool) {
	report.LogStage("Type Checking")

	w := sema.NewWalker(file)
	w.Walk()

	for _, cerr := range w.Errors() {
		report.ReportCompileError(c.absPath, c.reprPath, cerr.Span, cerr.Message)
	}

	return w.TypeMap(), len(w.Errors()) == 0
}

// generate runs code generation and writes the LLVM output file.
func (c *Compiler) generate(file *ast.File, typeMap map[ast.ASTNode]*types.Type) (string, bool) {
	report.LogStage("Code Generation")

	g := codegen.NewGenerator(file, typeMap)
	g.Generate()

	outPath := c.outputPath()
	if err := ioutil.WriteFile(outPath, []byte(g.EmitText()), 0644); err != nil {
		report.ReportStdError(c.reprPath, err)
		return "", false
	}

	return outPath, true
}

// outputPath determines the path the LLVM output is written to.  Unless set
// explicitly, the output sits next to the source file, named for it and the
// output kind.
func (c *Compiler) outputPath() string {
	if c.outPath != "" {
		return c.outPath
	}

	base := strings.TrimSuffix(c.absPath, common.AegisFileExt)
	if c.outKind != "exe" {
		base += "_" + c.outKind
	}

	return base + ".ll"
}
