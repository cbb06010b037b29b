package main

import (
	"fmt"

	"github.com/tdewolff/crunch"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/diag"
)

// Options are the command line options that select the rewrites.
type Options struct {
	Rename            string
	KeepFunctionNames bool
	KeepNames         []string
	NoFold            bool
	NoPeephole        bool
	CombineLiterals   bool
	StripDebug        bool
	Disallow          []string
	Fatal             []string
}

var peepholeModifications = []config.Modification{
	config.CombineVarStatements,
	config.MoveVarIntoFor,
	config.ReturnVarCollapse,
	config.IfReturnToConditional,
	config.RemoveDefaultCase,
	config.RemoveEmptyBlocks,
	config.IfToAndCall,
	config.FlattenBlocks,
	config.CombineExpressionStatements,
}

var foldModifications = []config.Modification{
	config.EvaluateNumericExpressions,
	config.EvaluateStringExpressions,
	config.EvaluateLogicalExpressions,
	config.ConstantConditions,
}

// Settings returns the optimizer settings for the options.
func (o Options) Settings() (*crunch.Settings, error) {
	s := crunch.DefaultSettings()
	if o.Rename != "" {
		mode, ok := config.ParseRenameMode(o.Rename)
		if !ok {
			return nil, fmt.Errorf("unknown rename mode %q", o.Rename)
		}
		s.Rename = mode
	}
	s.PreserveFunctionNames = o.KeepFunctionNames
	s.KeepNames = o.KeepNames

	if o.NoPeephole {
		for _, m := range peepholeModifications {
			s.Allow(m, false)
		}
	}
	if o.NoFold {
		for _, m := range foldModifications {
			s.Allow(m, false)
		}
	}
	s.Allow(config.CombineDuplicateLiterals, o.CombineLiterals)
	s.Allow(config.StripDebugStatements, o.StripDebug)
	for _, name := range o.Disallow {
		m, ok := config.ParseModification(name)
		if !ok {
			return nil, fmt.Errorf("unknown modification %q", name)
		}
		s.Allow(m, false)
	}

	for _, code := range o.Fatal {
		known := false
		for _, c := range diag.KnownCodes {
			if c == code {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown diagnostic code %q", code)
		}
	}
	s.Fatal = o.Fatal
	return s, nil
}
