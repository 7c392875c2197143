package deckio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
)

func deckOf(t *testing.T, tokens string) *deck.Deck {
	cards, err := card.ParseGroups(strings.Fields(tokens))
	require.NoError(t, err)
	d := deck.New()
	d.InsertAll(cards)
	return d
}

func TestEncodeSkipsCoin(t *testing.T) {
	d := deckOf(t, "n1 s2 w3 9")
	d.AdjustCoin(deck.Second)
	require.True(t, d.HasCoin())
	assert.Equal(t, "n1 s2 w3 n9", Encode(d))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	d := deckOf(t, "4n1 2s2 w3 3n4 s7 20n9")
	require.NoError(t, Save(path, d))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\n")

	loaded := deckOf(t, "n5 n5")
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, d.Len(), loaded.Len())
	assert.Equal(t, card.Key(d.Cards()), card.Key(loaded.Cards()))
	assert.Equal(t, 0, loaded.CountIn(deck.InHand, nil))
}

func TestReadFailsAtomically(t *testing.T) {
	d := deckOf(t, "n1 n2 n3")
	err := Read(strings.NewReader("n1 n2 x3 n4"), d)
	require.ErrorIs(t, err, card.ErrBadToken)
	assert.Equal(t, 0, d.Len())

	// two spaces make an empty token.
	d = deckOf(t, "n1")
	err = Read(strings.NewReader("n1  n2"), d)
	require.ErrorIs(t, err, card.ErrBadToken)
	assert.Equal(t, 0, d.Len())
}

func TestReadTrimsAndAcceptsEmpty(t *testing.T) {
	d := deckOf(t, "n1")
	require.NoError(t, Read(strings.NewReader("  n2 s3\n"), d))
	assert.Equal(t, "n2 s3", Encode(d))

	require.NoError(t, Read(strings.NewReader("\n"), d))
	assert.Equal(t, 0, d.Len())
}

func TestReadLatin1(t *testing.T) {
	d := deck.New()
	// trailing no-break space saved as a single latin-1 byte.
	require.NoError(t, Read(bytes.NewReader([]byte("n1 s2 w3\xa0")), d))
	assert.Equal(t, "n1 s2 w3", Encode(d))

	err := Read(bytes.NewReader([]byte("n1 \xe92")), d)
	require.ErrorIs(t, err, card.ErrBadToken)
	assert.Equal(t, 0, d.Len())
}

func TestLoadMissingFileKeepsDeck(t *testing.T) {
	d := deckOf(t, "n1 n2")
	err := Load(filepath.Join(t.TempDir(), "nope"), d)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, "n1 n2", Encode(d))
}
