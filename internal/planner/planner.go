// Package planner classifies a token sequence produced by internal/token
// into a Pipeline: a background flag and an ordered list of Commands split
// on "|". It reports a parse error for any empty stage (leading, trailing,
// or adjacent pipe tokens) without launching anything.
package planner

import (
	"fmt"

	"astrashell/internal/token"
)

// Command is a single stage of a pipeline: a program name and its
// arguments, exactly as tokenized.
type Command struct {
	Args []string
}

// Pipeline is an ordered chain of Commands plus whether it was requested
// to run in the background.
type Pipeline struct {
	Stages     []Command
	Background bool
}

// Plan consumes tokens (as produced by token.Tokenize) and builds a
// Pipeline. Callers must not pass an empty token slice; the REPL driver
// re-prompts on empty input before reaching the planner.
func Plan(tokens []string) (*Pipeline, error) {
	background := false
	if n := len(tokens); n > 0 && tokens[n-1] == token.Amp {
		background = true
		tokens = tokens[:n-1]
	}

	if len(tokens) == 0 {
		if background {
			return nil, fmt.Errorf("astrashell: syntax error near unexpected token '&'")
		}
		return &Pipeline{}, nil
	}

	var stages []Command
	var current []string

	flush := func() error {
		if len(current) == 0 {
			return fmt.Errorf("astrashell: syntax error near unexpected token '|'")
		}
		stages = append(stages, Command{Args: current})
		current = nil
		return nil
	}

	for _, tok := range tokens {
		if tok == token.Pipe {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		current = append(current, tok)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return &Pipeline{Stages: stages, Background: background}, nil
}

// IsBuiltinInvocation reports whether p should route to the builtin
// dispatcher: exactly one stage whose first token names a builtin. A
// builtin appearing anywhere in a multi-stage pipeline is run as an
// external command instead (it cannot receive piped stdin meaningfully
// while running in-process).
func IsBuiltinInvocation(p *Pipeline, isBuiltin func(string) bool) bool {
	return len(p.Stages) == 1 && len(p.Stages[0].Args) > 0 && isBuiltin(p.Stages[0].Args[0])
}
