package main

import (
	"waveportal-tui/styles"
)

// -------------------- THEME (Lip Gloss) --------------------
// Styles come from the styles package

var (
	cMuted   = styles.CMuted
	cText    = styles.CText
	cAccent  = styles.CAccent
	cAccent2 = styles.CAccent2
	cWarn    = styles.CWarn
	cBorder  = styles.CBorder

	panelStyle = styles.PanelStyle
)
