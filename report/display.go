package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// The pterm styles used to render the different kinds of compile messages.
var (
	errorColorFG = pterm.FgRed
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnColorFG  = pterm.FgYellow
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	infoColorFG  = pterm.FgLightGreen
	infoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

// Enumeration of compile message labels.
const (
	msgError = iota
	msgWarning
	msgInfo
)

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	errorStyleBG.Print("internal compiler error")
	errorColorFG.Printf(" %s\n", message)
	fmt.Print("This error was not supposed to happen: please open an issue on GitHub\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	errorStyleBG.Print("fatal error")
	errorColorFG.Printf(" %s\n\n", message)
}

// displayCompileMessage displays a compilation error, warning, or notice.
func displayCompileMessage(label int, absPath, reprPath string, span *TextSpan, message string) {
	var labelStr string
	var labelColor pterm.Color
	switch label {
	case msgError:
		labelStr, labelColor = "error", errorColorFG
	case msgWarning:
		labelStr, labelColor = "warning", warnColorFG
	default:
		labelStr, labelColor = "info", infoColorFG
	}

	if span == nil {
		fmt.Printf("%s: ", reprPath)
		labelColor.Printf("%s: ", labelStr)
		fmt.Printf("%s\n\n", message)
	} else {
		fmt.Printf("%s:%d:%d: ", reprPath, span.StartLine+1, span.StartCol+1)
		labelColor.Printf("%s: ", labelStr)
		fmt.Printf("%s\n\n", message)
		displaySourceText(absPath, span)
	}
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	fmt.Printf("%s: ", reprPath)
	errorColorFG.Print("error: ")
	fmt.Printf("%s\n\n", err)
}

// -----------------------------------------------------------------------------

// LogCompileHeader displays the pre-compilation header: information about the
// compiler's current configuration.  This only displays at the verbose log
// level.
func LogCompileHeader(version, target, safetyMode string) {
	if rep.logLevel == LogLevelVerbose {
		fmt.Print("aegisc ")
		infoColorFG.Print("v" + version)
		fmt.Print(" -- target: ")
		infoColorFG.Print(target)
		fmt.Print(" -- safety: ")
		infoColorFG.Println(safetyMode)
	}
}

// LogStage displays the beginning of a compilation stage.  This only displays
// at the verbose log level.
func LogStage(stage string) {
	if rep.logLevel == LogLevelVerbose {
		infoStyleBG.Print(stage)
		fmt.Println()
	}
}

// LogFinished displays the concluding message for compilation.  This only
// displays at the verbose log level.
func LogFinished(errorCount int, outPath, outKind string) {
	if rep.logLevel == LogLevelVerbose {
		fmt.Println()

		if errorCount == 0 {
			infoColorFG.Print("All done! ")
			fmt.Printf("(wrote %s %s)\n", outKind, outPath)
		} else if errorCount == 1 {
			errorColorFG.Print("Oh no! ")
			fmt.Println("(1 error)")
		} else {
			errorColorFG.Print("Oh no! ")
			fmt.Printf("(%d errors)\n", errorCount)
		}
	}
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(absPath string, span *TextSpan) {
	// Open the file so we can read the desired source text.
	file, err := os.Open(absPath)
	if err != nil {
		// The source file may not exist on disk (eg. compiling from a string
		// buffer), in which case the excerpt is simply skipped.
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if err := sc.Err(); err != nil {
		displayICE(fmt.Sprintf("failed to read file %s for reporting: %s\n", absPath, err))
		os.Exit(-1)
	}

	if len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt32
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Calculate the maximum line number length.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))

	// Generate the format string for line numbers.
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		// Print the line number and separator bar.
		infoColorFG.Printf(lineNumFmtStr, i+span.StartLine+1)

		// Print the source text with the leading indent trimmed off.
		fmt.Println(line[minIndent:])

		// Print the line number padding and bar for carret underlining.
		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// Calculate the number of spaces before carret underlining begins. For
		// any line which is not the starting line, this is always zero since
		// the underlining is always continuing from the previous line.
		var carretPrefixCount int
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
		}

		// Calculate the number of characters at the end of the source line
		// that should not be highlighted.  For all lines except the last line,
		// this is zero, since underlining should span until the end of the
		// line and over onto the next line.
		var carretSuffixCount int
		if i == len(lines)-1 {
			carretSuffixCount = len(line) - span.EndCol
		}

		// Print the number of spaces that come before the carret underlining.
		fmt.Print(strings.Repeat(" ", carretPrefixCount))

		// Print the underlining carrets for the given line.
		carretCount := len(line) - carretSuffixCount - carretPrefixCount - minIndent
		if carretCount < 1 {
			carretCount = 1
		}
		errorColorFG.Println(strings.Repeat("^", carretCount))
	}

	fmt.Println()
}
