package services

import (
	"encoding/json"
	"fmt"
)

// Result is what a provider hands back: either plain text or a value
// with no text to pull out.
type Result interface {
	isResult()
}

// TextResult carries the generated text.
type TextResult string

// OpaqueResult carries a provider response that exposed no text.
type OpaqueResult struct {
	Value any
}

func (TextResult) isResult()   {}
func (OpaqueResult) isResult() {}

// ExtractText returns the text of r, or a string rendering of an opaque value.
func ExtractText(r Result) string {
	switch v := r.(type) {
	case TextResult:
		return string(v)
	case OpaqueResult:
		if v.Value == nil {
			return ""
		}
		if b, err := json.Marshal(v.Value); err == nil {
			return string(b)
		}
		return fmt.Sprint(v.Value)
	}
	return ""
}
