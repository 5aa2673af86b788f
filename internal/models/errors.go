package models

import "fmt"

// SyntaxError is the single fatal failure surface of the engine: the
// source could not be parsed into a construct tree. It replaces the whole
// AnalysisResult; no partial results accompany it.
type SyntaxError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Message)
}
