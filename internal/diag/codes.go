package diag

import (
	"fmt"
	"sort"
)

type Code uint32

// Message is a catalog entry: a stable key, a classification and the English
// template. Templates use positional verbs (%[1]v, %[2]v, ...).
type Message struct {
	Key      string
	Category Category
	Code     Code
	Text     string
}

var (
	// watch status
	StartingCompilationInWatchMode = Message{"starting-compilation-in-watch-mode", CategoryMessage, 6031, "Starting compilation in watch mode..."}
	FileChangeDetected             = Message{"file-change-detected", CategoryMessage, 6032, "File change detected. Starting incremental compilation..."}
	FoundOneErrorWatching          = Message{"found-1-error-watching", CategoryMessage, 6193, "Found 1 error. Watching for file changes."}
	FoundErrorsWatching            = Message{"found-n-errors-watching", CategoryMessage, 6194, "Found %[1]v errors. Watching for file changes."}

	// program errors
	CannotFindName            = Message{"cannot-find-name", CategoryError, 2304, "Cannot find name '%[1]v'."}
	ModuleHasNoExportedMember = Message{"module-has-no-exported-member", CategoryError, 2305, "Module '%[1]v' has no exported member '%[2]v'."}
	CannotFindModule          = Message{"cannot-find-module", CategoryError, 2307, "Cannot find module '%[1]v'."}
	TypeNotAssignable         = Message{"type-not-assignable", CategoryError, 2322, "Type '%[1]v' is not assignable to type '%[2]v'."}
	PropertyDoesNotExist      = Message{"property-does-not-exist", CategoryError, 2339, "Property '%[1]v' does not exist on type '%[2]v'."}
	UnknownCompilerOption     = Message{"unknown-compiler-option", CategoryError, 5023, "Unknown compiler option '%[1]v'."}
	FileNotFound              = Message{"file-not-found", CategoryError, 6053, "File '%[1]v' not found."}
	NoInputsFound             = Message{"no-inputs-found", CategoryError, 18003, "No inputs were found in config file '%[1]v'. Specified 'include' paths were '%[2]v' and 'exclude' paths were '%[3]v'."}
	UnusedLocal               = Message{"unused-local", CategoryError, 6133, "'%[1]v' is declared but its value is never read."}
)

var registry = index(
	StartingCompilationInWatchMode,
	FileChangeDetected,
	FoundOneErrorWatching,
	FoundErrorsWatching,
	CannotFindName,
	ModuleHasNoExportedMember,
	CannotFindModule,
	TypeNotAssignable,
	PropertyDoesNotExist,
	UnknownCompilerOption,
	FileNotFound,
	NoInputsFound,
	UnusedLocal,
)

func index(msgs ...Message) map[string]Message {
	out := make(map[string]Message, len(msgs))
	for _, m := range msgs {
		if _, dup := out[m.Key]; dup {
			panic(fmt.Sprintf("diag: duplicate message key %q", m.Key))
		}
		out[m.Key] = m
	}
	return out
}

// Lookup returns the registered message with the given key.
func Lookup(key string) (Message, bool) {
	m, ok := registry[key]
	return m, ok
}

// Messages returns all registered messages ordered by code.
func Messages() []Message {
	out := make([]Message, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ID returns the code in its printed form, e.g. "TS2307".
func (c Code) ID() string {
	return fmt.Sprintf("TS%d", uint32(c))
}

func (c Code) String() string {
	return c.ID()
}

// CodeSet is a set of diagnostic codes.
type CodeSet map[Code]struct{}

// NewCodeSet builds a set from codes.
func NewCodeSet(codes ...Code) CodeSet {
	set := make(CodeSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Has reports membership. A nil set contains nothing.
func (s CodeSet) Has(c Code) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members in ascending order.
func (s CodeSet) Sorted() []Code {
	out := make([]Code, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ScreenStartingCodes returns the default set of codes that open a new screen
// of watch output: the host clears the console before printing them.
func ScreenStartingCodes() CodeSet {
	return NewCodeSet(StartingCompilationInWatchMode.Code, FileChangeDetected.Code)
}
