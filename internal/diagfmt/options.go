package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeRelative prints paths relative to the host's current directory.
	PathModeRelative PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeBasename
	PathModeAuto
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeBasename:
		return "basename"
	case PathModeAuto:
		return "auto"
	default:
		return "relative"
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	NewLine  string
	Cwd      string
	Width    int // max width of the context line, 0 = unlimited
}
