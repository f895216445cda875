package ui

import "time"

// Layout sizes.
const (
	// chromeHeight is the header plus the command bar.
	chromeHeight = 2

	// formWidth is the width of the centered form panel.
	formWidth = 56

	// inputWidth is the visible width of form text inputs.
	inputWidth = 24
)

// DefaultUIInterval is how often the UI polls the store while a check runs.
const DefaultUIInterval = 250 * time.Millisecond
