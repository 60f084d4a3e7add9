package ui

// Color accessors return the escape code of the active theme, or "" when
// colors are disabled.

func ColorDisplay() string  { return GetCurrentTheme().Display }
func ColorPrompt() string   { return GetCurrentTheme().Prompt }
func ColorOperator() string { return GetCurrentTheme().Operator }
func ColorError() string    { return GetCurrentTheme().Error }
func ColorDim() string      { return GetCurrentTheme().Dim }
func ColorBold() string     { return GetCurrentTheme().Bold }
func ColorReset() string    { return GetCurrentTheme().Reset }
