package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() (StateSnapshot, []ObjectSnapshot) {
	state := StateSnapshot{
		Score:          10,
		Lives:          3,
		ElapsedSeconds: 1.25,
		Flags:          map[FlagID]bool{"door": true},
		Counters:       map[CounterID]float64{"hits": 2},
		Terminal:       TerminalRunning,
	}
	objects := []ObjectSnapshot{
		{ID: "ball", Visible: true, X: 4, Y: 8, ScaleX: 1, ScaleY: 1, Opacity: 1},
	}
	return state, objects
}

func TestStateHashDeterministic(t *testing.T) {
	state, objects := sampleSnapshot()

	h1, err := StateHash(state, objects)
	require.NoError(t, err)
	h2, err := StateHash(state, objects)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex SHA-256
}

func TestStateHashSensitivity(t *testing.T) {
	state, objects := sampleSnapshot()
	base, err := StateHash(state, objects)
	require.NoError(t, err)

	state.Score = 11
	changed, err := StateHash(state, objects)
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestTickHashCoversCommands(t *testing.T) {
	state, objects := sampleSnapshot()

	without, err := TickHash(state, objects, nil)
	require.NoError(t, err)
	with, err := TickHash(state, objects, []Command{{Type: CmdPlaySound, SoundID: "beep", Volume: 1}})
	require.NoError(t, err)

	assert.NotEqual(t, without, with)
}

func TestDomainSeparation(t *testing.T) {
	// The same payload hashed under different domains must not collide:
	// a state hash can never be confused for a tick hash.
	state, objects := sampleSnapshot()

	stateHash, err := StateHash(state, objects)
	require.NoError(t, err)
	tickHash, err := TickHash(state, objects, nil)
	require.NoError(t, err)

	assert.NotEqual(t, stateHash, tickHash)
}

func TestDocumentHashStable(t *testing.T) {
	doc := &Document{
		Title:        "tap",
		InitialState: InitialState{Score: 0, Lives: 1},
		Layout: []ObjectLayout{
			{ID: "ball", X: 1, Y: 2, Width: 4, Height: 4},
		},
	}

	h1, err := DocumentHash(doc)
	require.NoError(t, err)
	h2, err := DocumentHash(doc)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	doc.Title = "tap2"
	h3, err := DocumentHash(doc)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
