package main

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorReset  = "\033[0m"
)

// prefix returns the log prefix for a severity, colored when writing to a terminal.
func prefix(severity, color string, colored bool) string {
	if colored {
		return color + severity + colorReset + ": "
	}
	return severity + ": "
}
