// Package config holds the settings that control which rewrites the optimizer may apply.
package config

import (
	"strconv"
	"strings"
)

// Modification is a category of rewrites that can be allowed or disallowed as a whole.
type Modification uint8

// Modification values.
const (
	CombineVarStatements Modification = iota
	MoveVarIntoFor
	ReturnVarCollapse
	IfReturnToConditional
	RemoveDefaultCase
	RemoveEmptyBlocks
	IfToAndCall
	FlattenBlocks
	CombineExpressionStatements
	EvaluateNumericExpressions
	EvaluateStringExpressions
	EvaluateLogicalExpressions
	RenameLocals
	CombineDuplicateLiterals
	StripDebugStatements
	ConstantConditions
	numModifications
)

var modificationNames = [...]string{
	CombineVarStatements:        "combine-var",
	MoveVarIntoFor:              "move-var-into-for",
	ReturnVarCollapse:           "return-var",
	IfReturnToConditional:       "if-return",
	RemoveDefaultCase:           "remove-default",
	RemoveEmptyBlocks:           "remove-empty",
	IfToAndCall:                 "if-call",
	FlattenBlocks:               "flatten-blocks",
	CombineExpressionStatements: "combine-expr",
	EvaluateNumericExpressions:  "eval-numeric",
	EvaluateStringExpressions:   "eval-string",
	EvaluateLogicalExpressions:  "eval-logical",
	RenameLocals:                "rename",
	CombineDuplicateLiterals:    "combine-literals",
	StripDebugStatements:        "strip-debug",
	ConstantConditions:          "constant-conditions",
}

func (m Modification) String() string {
	if m < numModifications {
		return modificationNames[m]
	}
	return "Invalid(" + strconv.Itoa(int(m)) + ")"
}

// ParseModification returns the modification for its name as returned by String.
func ParseModification(s string) (Modification, bool) {
	for m := Modification(0); m < numModifications; m++ {
		if modificationNames[m] == s {
			return m, true
		}
	}
	return 0, false
}

// RenameMode selects which local names are shortened.
type RenameMode uint8

// RenameMode values.
const (
	CrunchAll            RenameMode = iota // rename every renameable local
	KeepLocalizationVars                   // keep locals starting with L_
	KeepAll                                // rename nothing
)

func (r RenameMode) String() string {
	switch r {
	case CrunchAll:
		return "all"
	case KeepLocalizationVars:
		return "localization"
	case KeepAll:
		return "none"
	}
	return "Invalid(" + strconv.Itoa(int(r)) + ")"
}

// ParseRenameMode parses the names returned by String.
func ParseRenameMode(s string) (RenameMode, bool) {
	for _, r := range []RenameMode{CrunchAll, KeepLocalizationVars, KeepAll} {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Settings configures an optimization run. The zero value allows every modification and renames every local.
type Settings struct {
	Rename                RenameMode
	KeepNames             []string // names that are never renamed
	PreserveFunctionNames bool     // do not rename function declarations and named function expressions
	Fatal                 []string // diagnostic codes that abort the run

	disallowed uint32
}

// Default returns the settings used by the command line tool: everything is allowed except combining duplicate literals and stripping debug statements.
func Default() *Settings {
	s := &Settings{}
	s.Allow(CombineDuplicateLiterals, false)
	s.Allow(StripDebugStatements, false)
	return s
}

// Allow sets whether a modification may be applied.
func (s *Settings) Allow(m Modification, allowed bool) {
	if allowed {
		s.disallowed &^= 1 << m
	} else {
		s.disallowed |= 1 << m
	}
}

// IsModificationAllowed returns true if the modification may be applied.
func (s *Settings) IsModificationAllowed(m Modification) bool {
	if s == nil {
		return m != CombineDuplicateLiterals && m != StripDebugStatements
	} else if m == RenameLocals && s.Rename == KeepAll {
		return false
	}
	return s.disallowed&(1<<m) == 0
}

// IsKept returns true if a local of the given name must keep its name.
func (s *Settings) IsKept(name string) bool {
	if s == nil {
		return false
	} else if s.Rename == KeepAll || s.Rename == KeepLocalizationVars && strings.HasPrefix(name, "L_") {
		return true
	}
	for _, keep := range s.KeepNames {
		if keep == name {
			return true
		}
	}
	return false
}

// IsFatal returns true if a diagnostic code aborts the run.
func (s *Settings) IsFatal(code string) bool {
	if s == nil {
		return false
	}
	for _, fatal := range s.Fatal {
		if fatal == code {
			return true
		}
	}
	return false
}

// String returns a canonical description of the settings. Equal settings return equal strings.
func (s *Settings) String() string {
	if s == nil {
		s = Default()
	}
	sb := strings.Builder{}
	sb.WriteString("rename=")
	sb.WriteString(s.Rename.String())
	if s.PreserveFunctionNames {
		sb.WriteString(" keep-fnames")
	}
	if 0 < len(s.KeepNames) {
		sb.WriteString(" keep=")
		sb.WriteString(strings.Join(s.KeepNames, ","))
	}
	if 0 < len(s.Fatal) {
		sb.WriteString(" fatal=")
		sb.WriteString(strings.Join(s.Fatal, ","))
	}
	for m := Modification(0); m < numModifications; m++ {
		if !s.IsModificationAllowed(m) {
			sb.WriteString(" -")
			sb.WriteString(m.String())
		}
	}
	return sb.String()
}
