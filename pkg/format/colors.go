package format

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red   = "\033[31m"
	Green = "\033[32m"
)

// ColorizeIf applies color only if useColors is true
func ColorizeIf(text, color string, useColors bool) string {
	if !useColors {
		return text
	}
	return color + text + Reset
}

// BoldIf applies bold only if useColors is true
func BoldIf(text string, useColors bool) string {
	if !useColors {
		return text
	}
	return Bold + text + Reset
}

// DimIf applies dim only if useColors is true
func DimIf(text string, useColors bool) string {
	if !useColors {
		return text
	}
	return Dim + text + Reset
}
