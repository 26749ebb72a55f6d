// Package sigutil provides the one small helper spec.md's Text-signal
// invariants directly imply — merging a run of possibly-split Text signals
// back into a single logical string — without reaching into tree-building
// helpers the spec scopes out of the core (see spec.md §1 Non-goals).
package sigutil

import (
	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
)

// CollectText drains sigs and concatenates every Text signal's content,
// in document order, into one string. Non-text signals are skipped, not
// treated as separators: callers wanting element-scoped text should filter
// before calling this, e.g. by draining only the signals between a
// matching StartElement/EndElement pair.
//
// A Stream that was marked permanently failed (stream.Fail or
// stream.Stream.SetFail) panics on Next; CollectText recovers that panic and returns it as err instead of
// propagating it, so a caller that only wants plain text doesn't also have
// to know about the panic-based failure contract.
func CollectText(sigs *stream.Stream[markup.Located]) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				panic(r)
			}
		}
	}()
	var b []byte
	stream.Iter(sigs, func(loc markup.Located) {
		if t, ok := loc.Sig.(markup.Text); ok {
			b = append(b, t.String()...)
		}
	})
	return string(b), nil
}
