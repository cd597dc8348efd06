package script

import "github.com/scratchlang/slc/project"

// scope is the explicit context of the statement being compiled.
type scope struct {
	target *project.Target
	// proc is the procedure whose body is compiled, nil elsewhere.
	proc *procedure
	// line is the 1-based number of the current source line.
	line int
}

func (s *scope) at(line int) *scope {
	s.line = line
	return s
}

// param reports whether name is a parameter of the enclosing procedure.
func (s *scope) param(name string) bool {
	if s.proc == nil {
		return false
	}
	for _, p := range s.proc.Params {
		if p == name {
			return true
		}
	}
	return false
}
