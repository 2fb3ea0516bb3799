package main

import (
	"fmt"
	"os"
)

const (
	colorGreen  = "\033[0;32m"
	colorRed    = "\033[0;31m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

// NO_COLOR disables escape codes (https://no-color.org)
var useColor = os.Getenv("NO_COLOR") == ""

func printLine(color, prefix, format string, a ...any) {
	msg := prefix + fmt.Sprintf(format, a...)
	if useColor {
		msg = color + msg + colorReset
	}
	fmt.Println(msg)
}

func PrintInfo(format string, a ...any) {
	printLine(colorBlue, "ℹ ", format, a...)
}

func PrintSuccess(format string, a ...any) {
	printLine(colorGreen, "✓ ", format, a...)
}

func PrintWarning(format string, a ...any) {
	printLine(colorYellow, "⚠ ", format, a...)
}

func PrintError(format string, a ...any) {
	printLine(colorRed, "✗ ", format, a...)
}

func PrintHeader(title string) {
	fmt.Println()
	printLine(colorYellow, "", "=== %s ===", title)
}
