// Package errs implements the closed parse-error taxonomy shared by the
// XML and HTML parsers and serializers, plus the wrap/catch chaining style
// used throughout this module to test "is there a DecodingError anywhere in
// this chain" without losing the original cause.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies which of the closed set of parse-error categories an
// Error belongs to.
type Kind string

const (
	KindDecoding          Kind = "decoding error"
	KindBadToken          Kind = "bad token"
	KindUnexpectedEOI     Kind = "unexpected end of input"
	KindBadDocument       Kind = "bad document"
	KindUnmatchedStartTag Kind = "unmatched start tag"
	KindUnmatchedEndTag   Kind = "unmatched end tag"
	KindBadNamespace      Kind = "bad namespace"
	KindMisnestedTag      Kind = "misnested tag"
	KindBadContent        Kind = "bad content"
)

// Error is the concrete type behind every error this module reports
// through Options.Report. Operand holds the kind-specific detail named in
// spec §7 (e.g. the offending token, or the tag name); Where and Suggestion
// are populated when the kind calls for them. Cause, when non-nil, is a
// lower-level Error this one grew out of (mirrors the teacher's son-chain).
type Error struct {
	Kind       Kind
	Operand    string
	Where      string
	Suggestion string
	Cause      error
}

func (e Error) Error() string {
	s := string(e.Kind)
	switch {
	case e.Where != "" && e.Suggestion != "":
		s += fmt.Sprintf(" in %s: %q %s", e.Where, e.Operand, e.Suggestion)
	case e.Where != "":
		s += fmt.Sprintf(" in %s: %q", e.Where, e.Operand)
	case e.Operand != "":
		s += fmt.Sprintf(": %q", e.Operand)
	}
	return s
}

func (e Error) Unwrap() error { return e.Cause }

// New builds a leaf Error of the given kind.
func New(kind Kind, operand string) Error {
	return Error{Kind: kind, Operand: operand}
}

// Decoding builds a DecodingError(bytes, encoding) per spec §7.
func Decoding(bytes, encoding string) Error {
	return Error{Kind: KindDecoding, Operand: bytes, Where: encoding}
}

// BadToken builds a BadToken(token, where, suggestion).
func BadToken(token, where, suggestion string) Error {
	return Error{Kind: KindBadToken, Operand: token, Where: where, Suggestion: suggestion}
}

// UnexpectedEOI builds an UnexpectedEoi(where).
func UnexpectedEOI(where string) Error {
	return Error{Kind: KindUnexpectedEOI, Where: where}
}

// BadDocument builds a BadDocument(detail).
func BadDocument(detail string) Error {
	return Error{Kind: KindBadDocument, Operand: detail}
}

// UnmatchedStartTag builds an UnmatchedStartTag(name).
func UnmatchedStartTag(name string) Error {
	return Error{Kind: KindUnmatchedStartTag, Operand: name}
}

// UnmatchedEndTag builds an UnmatchedEndTag(name).
func UnmatchedEndTag(name string) Error {
	return Error{Kind: KindUnmatchedEndTag, Operand: name}
}

// BadNamespace builds a BadNamespace(string).
func BadNamespace(detail string) Error {
	return Error{Kind: KindBadNamespace, Operand: detail}
}

// MisnestedTag builds a MisnestedTag(what, where).
func MisnestedTag(what, where string) Error {
	return Error{Kind: KindMisnestedTag, Operand: what, Where: where}
}

// BadContent builds a BadContent(where).
func BadContent(where string) Error {
	return Error{Kind: KindBadContent, Where: where}
}

// Grow wraps cause as the Cause of son, the way the teacher's errors.Grow
// grows a child Error around a parent's reason.
func Grow(cause error, son Error) Error {
	son.Cause = cause
	return son
}

// Catch reports whether err, or any error in its Cause chain, is of kind.
func Catch(err error, kind Kind) bool {
	for err != nil {
		var e Error
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}
