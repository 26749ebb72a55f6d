package sigutil

import (
	"testing"

	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
	"github.com/stretchr/testify/require"
)

func TestCollectTextConcatenatesInOrder(t *testing.T) {
	sigs := stream.OfSlice([]markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "r"}}},
		{Sig: markup.Text{Chunks: []string{"hello "}}},
		{Sig: markup.Comment{Body: "ignored"}},
		{Sig: markup.Text{Chunks: []string{"world"}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "r"}}},
	})

	text, err := CollectText(sigs)
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
}

func TestCollectTextEmptyStream(t *testing.T) {
	text, err := CollectText(stream.OfSlice[markup.Located](nil))
	require.NoError(t, err)
	require.Equal(t, "", text)
}

func TestCollectTextRecoversFailedStream(t *testing.T) {
	boom := boomErr{}
	text, err := CollectText(stream.Fail[markup.Located](boom))
	require.Equal(t, boomErr{}, err)
	require.Equal(t, "", text)
}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }
