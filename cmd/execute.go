// Package cmd is the top-level "driver" package for the Aegis compiler: it
// contains all the functionality for parsing command-line arguments, managing
// compiler state, and running all the various phases of the compiler.
package cmd

import (
	"fmt"
	"os"

	"aegisc/common"
	"aegisc/report"
	"aegisc/safety"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `aegisc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("aegisc", "aegisc is the compiler for the Aegis language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false,
		[]string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile an Aegis source file", true)
	buildCmd.AddPrimaryArg("file-path", "the path to the source file to build", true)
	buildCmd.AddStringArg("outpath", "o", "the path to write the LLVM output to", false)
	buildCmd.AddStringArg("policy", "p", "the path to a TOML safety policy file", false)

	outKindArg := buildCmd.AddSelectorArg("outkind", "k", "the kind of output to produce", false,
		[]string{"exe", "dll", "service", "driver"})
	outKindArg.SetDefaultValue("exe")

	safetyArg := buildCmd.AddSelectorArg("safety", "s", "the safety mode to enforce", false,
		[]string{"safe", "unsafe", "custom"})
	safetyArg.SetDefaultValue("safe")

	optLvlArg := buildCmd.AddSelectorArg("optlevel", "O", "the optimization level", false,
		[]string{"0", "1", "2", "3"})
	optLvlArg.SetDefaultValue("0")

	cli.AddSubcommand("version", "print the Aegis compiler version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, result.Arguments["loglevel"].(string))
	case "version":
		fmt.Println("aegisc v" + common.AegisVersion)
	}
}

// logLevels maps log level option names to reporter log levels.
var logLevels = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// execBuildCommand executes the build subcommand and handles all its errors.
func execBuildCommand(result *olive.ArgParseResult, loglevel string) {
	// initialize the reporter
	report.InitReporter(logLevels[loglevel])

	// get the primary argument: the path to the source file
	filePath, _ := result.PrimaryArg()

	// create the compiler
	c := NewCompiler(filePath)
	c.outKind = result.Arguments["outkind"].(string)

	if outPath, ok := result.Arguments["outpath"]; ok {
		c.outPath = outPath.(string)
	}

	mode, _ := safety.ParseMode(result.Arguments["safety"].(string))
	c.safetyMode = mode

	// the policy file only has meaning in custom mode; loading failures are
	// fatal since compiling against half a policy could approve anything
	if policyPath, ok := result.Arguments["policy"]; ok {
		policy, err := LoadPolicy(policyPath.(string))
		if err != nil {
			report.ReportFatal("error loading policy file: %s", err.Error())
		}

		if policy.Mode != "" {
			if mode, ok := safety.ParseMode(policy.Mode); ok {
				c.safetyMode = mode
			} else {
				report.ReportFatal("policy file names unknown safety mode `%s`", policy.Mode)
			}
		}

		c.overrides = policy.Overrides()
	}

	// run the compilation pipeline
	c.Run()
}
