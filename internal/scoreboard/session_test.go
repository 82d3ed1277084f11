package scoreboard

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/errors"
)

func TestSessionDeposit(t *testing.T) {
	d := scoreit.Deposit{PlayerID: "p", PlayerName: "Pat", Item: "minecraft:emerald", Quantity: 3}

	t.Run("it refuses deposits before the game starts", func(t *testing.T) {
		s := New()
		_, err := s.Deposit(d, 30)
		assert.ErrorIs(t, err, errors.ErrGameNotStarted)
		assert.False(t, s.Leaderboard().HasPlayer("p"))
	})

	t.Run("it reports a paused game", func(t *testing.T) {
		s := New()
		s.Start()
		s.Stop()
		_, err := s.Deposit(d, 30)
		assert.ErrorIs(t, err, errors.ErrGamePaused)
	})

	t.Run("it refuses deposits after the game ended", func(t *testing.T) {
		s := New()
		s.Start()
		s.End()
		_, err := s.Deposit(d, 30)
		assert.ErrorIs(t, err, errors.ErrGameNotStarted)
	})

	t.Run("it registers unknown players and credits them", func(t *testing.T) {
		s := New()
		require.True(t, s.Start())

		res, err := s.Deposit(d, 30)
		require.NoError(t, err)
		assert.Equal(t, scoreit.DepositResult{PlayerID: "p", Awarded: 30, Total: 30}, res)

		res, err = s.Deposit(d, 30)
		require.NoError(t, err)
		assert.EqualValues(t, 60, res.Total)

		got, _ := s.Leaderboard().Player("p")
		assert.EqualValues(t, 6, got.ItemCounts["minecraft:emerald"])
	})
}

func TestSessionReset(t *testing.T) {
	s := New()
	s.Start()
	s.Join("a", "A")
	s.Leaderboard().AddPoints("a", 4)

	s.Reset()

	assert.Equal(t, scoreit.StateNone, s.State())
	assert.Empty(t, s.Leaderboard().Ranked(0, ""))
}

func TestSessionJoin(t *testing.T) {
	s := New()
	assert.True(t, s.Join("a", "A"))
	assert.False(t, s.Join("a", "A again"))

	got, _ := s.Leaderboard().Player("a")
	assert.Equal(t, "A", got.Name)
	assert.Zero(t, got.Points)
}

func TestSessionJoinConcurrent(t *testing.T) {
	s := New()

	var (
		wg     sync.WaitGroup
		joined atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Join("a", "A") {
				joined.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, joined.Load())
	assert.Equal(t, 1, s.Leaderboard().Len())
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	s := New()
	s.Start()
	s.Deposit(scoreit.Deposit{PlayerID: "a", PlayerName: "A", Item: "minecraft:dirt", Quantity: 2}, 2)
	s.Deposit(scoreit.Deposit{PlayerID: "b", PlayerName: "B", Item: "minecraft:gold", Quantity: 1}, 9)
	s.Stop()

	restored := New()
	restored.Restore(s.Snapshot())

	assert.Equal(t, scoreit.StateStopped, restored.State())
	assert.Equal(t, s.Leaderboard().Ranked(0, ""), restored.Leaderboard().Ranked(0, ""))
	assert.NotEqual(t, s.ID(), restored.ID())
}

func TestSessionRestoreUnknownState(t *testing.T) {
	s := New()
	s.Start()

	s.Restore(scoreit.Snapshot{
		State:  scoreit.StateUnknown,
		Scores: []scoreit.PlayerScore{{ID: "a", Name: "A", Points: 3}},
	})

	assert.Equal(t, scoreit.StateStarted, s.State())
	assert.True(t, s.Leaderboard().HasPlayer("a"))
}
