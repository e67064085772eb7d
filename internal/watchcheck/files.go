package watchcheck

import (
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// RootFiler lists the root files of a program.
type RootFiler interface {
	RootFileNames() []string
}

// SourceFiler lists every source file of a program.
type SourceFiler interface {
	SourceFileNames() []string
}

// CheckProgramRootFiles compares the program's root file names with expected,
// ignoring order.
func CheckProgramRootFiles(prog RootFiler, expected []string) error {
	return checkFileList(CaptionRootFiles, prog.RootFileNames(), expected)
}

// CheckProgramActualFiles compares the program's source file names with
// expected, ignoring order.
func CheckProgramActualFiles(prog SourceFiler, expected []string) error {
	return checkFileList(CaptionActualFiles, prog.SourceFileNames(), expected)
}

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func checkFileList(caption string, actual, expected []string) error {
	diff := cmp.Diff(expected, actual, sortStrings, cmpopts.EquateEmpty())
	if diff == "" {
		return nil
	}
	return &MismatchError{
		Kind:     StructuralMismatch,
		Caption:  caption,
		Index:    -1,
		Expected: "[" + strings.Join(expected, ", ") + "]",
		Actual:   "[" + strings.Join(actual, ", ") + "]",
		Detail:   "  diff (-expected +actual):\n" + diff,
	}
}
