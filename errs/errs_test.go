package errs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorStringRendersOperandAndWhere(t *testing.T) {
	err := BadToken("<<", "tag name", "expected a letter")
	require.Equal(t, `bad token in tag name: "<<" expected a letter`, err.Error())
}

func TestErrorStringOperandOnly(t *testing.T) {
	err := UnmatchedEndTag("div")
	require.Equal(t, `unmatched end tag: "div"`, err.Error())
}

func TestGrowChainsCause(t *testing.T) {
	leaf := Decoding("\xff", "utf-8")
	wrapped := Grow(leaf, BadDocument("truncated after decode error"))
	require.Equal(t, leaf, wrapped.Unwrap())
}

func TestCatchFindsKindInChain(t *testing.T) {
	leaf := Decoding("\xff", "utf-8")
	wrapped := Grow(leaf, BadDocument("truncated after decode error"))

	require.True(t, Catch(wrapped, KindDecoding))
	require.True(t, Catch(wrapped, KindBadDocument))
	require.False(t, Catch(wrapped, KindBadNamespace))
}

func TestCatchOnNilErrorIsFalse(t *testing.T) {
	require.False(t, Catch(nil, KindBadToken))
}
