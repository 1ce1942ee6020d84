package utils

const (
	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	// Discord UI Colors
	EmbedDefaultColor = 0x2B2D31
	CafeOpenColor     = 0x57F287
	CafeClosedColor   = 0x99AAB5
	AlertColor        = 0xED4245
)
