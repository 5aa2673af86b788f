package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RecursionKind classifies how a function calls back into itself.
type RecursionKind string

const (
	RecursionNone          RecursionKind = "none"
	RecursionLinear        RecursionKind = "linear"
	RecursionBranching     RecursionKind = "branching"
	RecursionDivideConquer RecursionKind = "divide-and-conquer"
)

// ComplexityClass is an asymptotic class label from the fixed vocabulary:
// O(1), O(log n), O(n), O(n log n), O(n^2), O(n^k), O(2^n).
type ComplexityClass string

const (
	ClassConstant     ComplexityClass = "O(1)"
	ClassLogarithmic  ComplexityClass = "O(log n)"
	ClassLinear       ComplexityClass = "O(n)"
	ClassLinearithmic ComplexityClass = "O(n log n)"
	ClassQuadratic    ComplexityClass = "O(n^2)"
	ClassExponential  ComplexityClass = "O(2^n)"
)

// ClassPolynomial returns the polynomial class for loop nesting depth k.
func ClassPolynomial(k int) ComplexityClass {
	if k <= 1 {
		return ClassLinear
	}
	return ComplexityClass(fmt.Sprintf("O(n^%d)", k))
}

// Order ranks classes so they can be compared; higher means worse.
// Polynomial classes rank by exponent, exponential above all of them.
func (c ComplexityClass) Order() int {
	switch c {
	case ClassConstant:
		return 0
	case ClassLogarithmic:
		return 1
	case ClassLinear:
		return 2
	case ClassLinearithmic:
		return 3
	case ClassExponential:
		return 1000
	}
	if strings.HasPrefix(string(c), "O(n^") {
		exp := strings.TrimSuffix(strings.TrimPrefix(string(c), "O(n^"), ")")
		if k, err := strconv.Atoi(exp); err == nil {
			return 2 + k
		}
	}
	return 0
}

// ExplanationBullet is one rendered explanation line tied to a source
// region. Depth is the nesting depth at emission time, used only for
// presentation indentation.
type ExplanationBullet struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Text      string `json:"text"`
	Depth     int    `json:"depth"`
}

// ComplexityFinding is the per-function (or per-module) estimate.
type ComplexityFinding struct {
	Function     string          `json:"function"`
	LoopDepth    int             `json:"loopDepth"`
	Recursion    RecursionKind   `json:"recursion"`
	BranchFactor int             `json:"branchFactor,omitempty"`
	Class        ComplexityClass `json:"class"`
}

// Suggestion is one alternative-implementation hint produced by a rule.
type Suggestion struct {
	Rule      string `json:"rule"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Text      string `json:"text"`
	Rationale string `json:"rationale"`
}

// AnalysisResult is the sole object returned to the caller. It is built
// once per analysis call and never mutated afterwards.
type AnalysisResult struct {
	Bullets     []ExplanationBullet `json:"bullets"`
	Complexity  []ComplexityFinding `json:"complexity"`
	Suggestions []Suggestion        `json:"suggestions"`
}

// NewAnalysisResult returns a result with non-nil slices so the JSON
// serialization is identical for empty and missing sections.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Bullets:     make([]ExplanationBullet, 0),
		Complexity:  make([]ComplexityFinding, 0),
		Suggestions: make([]Suggestion, 0),
	}
}
