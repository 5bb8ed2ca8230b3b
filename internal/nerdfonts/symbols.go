// Package nerdfonts holds the Nerd Font glyphs used in command output.
package nerdfonts

// Calendar and meeting symbols
const (
	Calendar      = "\uF073"
	CalendarClock = "\uF64F"
	Video         = "\uF03D"
	Clock         = "\uF017"
	Hourglass     = "\uF254"
)

// Status symbols
const (
	InfoCircle        = "\uF05A"
	CheckCircle       = "\uF058"
	ExclamationCircle = "\uF06A"
)
