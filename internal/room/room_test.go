package room

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wordrush/internal/protocol"
	"wordrush/internal/round"
	"wordrush/internal/words"
)

var testCorpus = words.NewList([]words.Entry{
	{Word: "Penguin", Hints: []string{"h1", "h2", "h3", "h4"}},
})

// newTestRoom runs a room with "host"/"Ann" as its first player.
func newTestRoom(t *testing.T, duration, interval time.Duration, hostOut chan protocol.ServerMessage) *Room {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, "ABCD", "host", "Ann", hostOut, testCorpus, zap.NewNop(), duration, interval)
}

func join(t *testing.T, r *Room, id, name string, out chan protocol.ServerMessage) JoinResult {
	t.Helper()
	reply := make(chan JoinResult, 1)
	r.Inbox() <- Join{PlayerID: id, Name: name, Outbox: out, Reply: reply}
	return recv(t, reply)
}

func start(t *testing.T, r *Room, by string) StartResult {
	t.Helper()
	reply := make(chan StartResult, 1)
	r.Inbox() <- StartGame{PlayerID: by, Reply: reply}
	return recv(t, reply)
}

func guess(t *testing.T, r *Room, by, text string) GuessResult {
	t.Helper()
	reply := make(chan GuessResult, 1)
	r.Inbox() <- SubmitGuess{PlayerID: by, Guess: text, Reply: reply}
	return recv(t, reply)
}

func nextRound(t *testing.T, r *Room, by string) NextRoundResult {
	t.Helper()
	reply := make(chan NextRoundResult, 1)
	r.Inbox() <- NextRound{PlayerID: by, Reply: reply}
	return recv(t, reply)
}

func state(t *testing.T, r *Room) protocol.RoomState {
	t.Helper()
	reply := make(chan protocol.RoomState, 1)
	r.Inbox() <- GetState{Reply: reply}
	return recv(t, reply)
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for reply")
		var zero T
		return zero // unreachable
	}
}

// recvEvent drains the outbox until a message of the wanted type shows
// up, so tests never depend on unrelated broadcast interleaving.
func recvEvent(t *testing.T, ch <-chan protocol.ServerMessage, msgType string, within time.Duration) protocol.ServerMessage {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case msg := <-ch:
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", msgType)
		}
	}
}

func recvNoEvent(t *testing.T, ch <-chan protocol.ServerMessage, msgType string, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case msg := <-ch:
			if msg.Type == msgType {
				t.Fatalf("unexpected %s within %v", msgType, within)
			}
		case <-deadline:
			return
		}
	}
}

func TestJoinRespectsCapacity(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)

	for i := 2; i <= MaxPlayers; i++ {
		res := join(t, r, fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), nil)
		require.NoError(t, res.Err, "join %d", i)
	}

	res := join(t, r, "p9", "Nine", nil)
	assert.ErrorIs(t, res.Err, ErrRoomFull)

	st := state(t, r)
	assert.Len(t, st.Players, MaxPlayers, "failed join must not change state")
}

func TestJoinAfterStartRejected(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	require.NoError(t, start(t, r, "host").Err)

	res := join(t, r, "late", "Late", nil)
	assert.ErrorIs(t, res.Err, ErrGameStarted)
}

func TestJoinFullStartedRoomReportsFull(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	for i := 2; i <= MaxPlayers; i++ {
		require.NoError(t, join(t, r, fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), nil).Err)
	}
	require.NoError(t, start(t, r, "host").Err)

	// Capacity is checked before the started flag.
	res := join(t, r, "p9", "Nine", nil)
	assert.ErrorIs(t, res.Err, ErrRoomFull)
}

func TestStartGame(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	join(t, r, "p2", "Bo", nil)

	res := start(t, r, "p2")
	assert.ErrorIs(t, res.Err, ErrNotHost, "non-host cannot start")

	res = start(t, r, "host")
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Round.RoundNumber)
	assert.Equal(t, TotalRounds, res.Round.TotalRounds)
	assert.Len(t, res.Round.Hints, 1, "exactly one hint visible at round start")
	assert.Equal(t, 60, res.Round.TimeRemaining)
	assert.True(t, res.Room.GameStarted)

	res = start(t, r, "host")
	assert.ErrorIs(t, res.Err, ErrGameStarted, "double start rejected")
}

func TestSubmitGuessAdjudication(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	join(t, r, "p2", "Bo", nil)

	res := guess(t, r, "host", "penguin")
	assert.ErrorIs(t, res.Err, ErrNoRound, "guess before any round")

	require.NoError(t, start(t, r, "host").Err)

	res = guess(t, r, "ghost", "penguin")
	assert.ErrorIs(t, res.Err, ErrPlayerNotFound)

	res = guess(t, r, "host", "walrus")
	require.NoError(t, res.Err)
	assert.False(t, res.Correct)

	st := state(t, r)
	assert.Equal(t, 0, st.Players[0].Score, "incorrect guess must not change state")
	assert.False(t, st.Players[0].Guessed)

	res = guess(t, r, "host", "  PENGUIN ")
	require.NoError(t, res.Err)
	assert.True(t, res.Correct)
	assert.Equal(t, 4, res.Points, "guess while hint index 0 scores 4")
	assert.Equal(t, "Correct after hint 1!", res.PointsReason)
	assert.False(t, res.RoundComplete, "Bo has not guessed yet")

	res = guess(t, r, "host", "penguin")
	assert.ErrorIs(t, res.Err, ErrAlreadyGuessed)

	res = guess(t, r, "p2", "penguin")
	require.NoError(t, res.Err)
	assert.Equal(t, 4, res.Points)
	assert.True(t, res.RoundComplete, "all players guessed")

	st = state(t, r)
	assert.Equal(t, 4, st.Players[0].Score)
	assert.Equal(t, 4, st.Players[1].Score)
}

func TestNextRoundResetsFlagsKeepsScores(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	join(t, r, "p2", "Bo", nil)
	require.NoError(t, start(t, r, "host").Err)
	guess(t, r, "host", "penguin")
	guess(t, r, "p2", "penguin")

	res := nextRound(t, r, "p2")
	assert.ErrorIs(t, res.Err, ErrNotHost)

	res = nextRound(t, r, "host")
	require.NoError(t, res.Err)
	require.False(t, res.GameOver)
	assert.Equal(t, 2, res.Round.RoundNumber)
	assert.Len(t, res.Round.Hints, 1)

	st := state(t, r)
	for _, p := range st.Players {
		assert.False(t, p.Guessed, "guessed flag resets each round")
		assert.Equal(t, 4, p.Score, "scores carry across rounds")
	}
}

func TestGameOverAfterLastRound(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	require.NoError(t, start(t, r, "host").Err)

	for want := 2; want <= TotalRounds; want++ {
		res := nextRound(t, r, "host")
		require.NoError(t, res.Err)
		require.False(t, res.GameOver)
		assert.Equal(t, want, res.Round.RoundNumber)
	}

	res := nextRound(t, r, "host")
	require.NoError(t, res.Err)
	assert.True(t, res.GameOver)
	assert.Equal(t, TotalRounds, res.Room.CurrentRound)
}

func TestLeaveReassignsHost(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	join(t, r, "p2", "Bo", nil)
	join(t, r, "p3", "Cy", nil)
	require.NoError(t, start(t, r, "host").Err)
	guess(t, r, "p2", "penguin")

	reply := make(chan LeaveResult, 1)
	r.Inbox() <- Leave{PlayerID: "host", Reply: reply}
	res := recv(t, reply)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, "p2", res.HostID, "first remaining player becomes host")

	st := state(t, r)
	assert.Equal(t, "p2", st.HostID)
	assert.Equal(t, 4, st.Players[0].Score, "remaining players keep score")
	assert.True(t, st.Players[0].Guessed, "remaining players keep guessed flag")
}

func TestLeaveLastPlayerEmptiesRoom(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)

	reply := make(chan LeaveResult, 1)
	r.Inbox() <- Leave{PlayerID: "host", Reply: reply}
	res := recv(t, reply)
	assert.Equal(t, 0, res.Remaining)
}

func TestScheduledRevealsBroadcast(t *testing.T) {
	out := make(chan protocol.ServerMessage, 16)
	r := newTestRoom(t, time.Minute, 40*time.Millisecond, out)
	require.NoError(t, start(t, r, "host").Err)

	for i := 1; i <= 3; i++ {
		msg := recvEvent(t, out, protocol.TypeHintReveal, time.Second)
		payload, ok := msg.Payload.(protocol.HintRevealPayload)
		require.True(t, ok)
		assert.Len(t, payload.Hints, i+1)
		assert.Len(t, payload.Room.Hints, i+1, "snapshot reflects the reveal")
	}

	// Exactly four hints per round, never a fifth reveal.
	recvNoEvent(t, out, protocol.TypeHintReveal, 200*time.Millisecond)
}

func TestRoundEndSuppressesPendingReveals(t *testing.T) {
	out := make(chan protocol.ServerMessage, 16)
	r := newTestRoom(t, time.Minute, 50*time.Millisecond, out)
	require.NoError(t, start(t, r, "host").Err)

	// Sole player guesses right away; the round completes and stops.
	res := guess(t, r, "host", "penguin")
	require.True(t, res.RoundComplete)

	recvNoEvent(t, out, protocol.TypeHintReveal, 200*time.Millisecond)
}

func TestAttachRebindsTransport(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)

	// Broadcasting past a disconnected player is a silent skip.
	r.Inbox() <- Broadcast{Event: protocol.Error("lost")}

	out := make(chan protocol.ServerMessage, 4)
	r.Inbox() <- Attach{PlayerID: "host", Outbox: out}
	r.Inbox() <- Broadcast{Event: protocol.Error("delivered")}

	msg := recvEvent(t, out, protocol.TypeError, time.Second)
	assert.Equal(t, "delivered", msg.Message)
}

func TestSnapshotHidesWordAndTransport(t *testing.T) {
	r := newTestRoom(t, round.Duration, round.HintInterval, nil)
	require.NoError(t, start(t, r, "host").Err)

	st := state(t, r)
	assert.Equal(t, "ABCD", st.RoomID)
	require.NotNil(t, st.TimeRemaining)
	assert.Equal(t, 60, *st.TimeRemaining)
	for _, h := range st.Hints {
		assert.NotEqual(t, "Penguin", h)
	}
}

// Mirrors the create -> join -> play-two-rounds flow end to end at the
// actor API, with a compressed reveal clock.
func TestTwoPlayerGameFlow(t *testing.T) {
	annOut := make(chan protocol.ServerMessage, 16)
	boOut := make(chan protocol.ServerMessage, 16)

	r := newTestRoom(t, time.Minute, 250*time.Millisecond, annOut)
	require.NoError(t, join(t, r, "bo", "Bo", boOut).Err)

	res := start(t, r, "host")
	require.NoError(t, res.Err)
	require.Len(t, res.Round.Hints, 1)
	require.Equal(t, 60, res.Round.TimeRemaining)

	// Ann guesses before any scheduled reveal.
	g := guess(t, r, "host", "penguin")
	require.True(t, g.Correct)
	assert.Equal(t, 4, g.Points)
	assert.False(t, g.RoundComplete)

	// Bo waits for the first reveal, then guesses: one hint later, one
	// point less.
	recvEvent(t, boOut, protocol.TypeHintReveal, 2*time.Second)
	g = guess(t, r, "bo", "penguin")
	require.True(t, g.Correct)
	assert.Equal(t, 3, g.Points)
	assert.True(t, g.RoundComplete, "both players guessed")

	next := nextRound(t, r, "host")
	require.NoError(t, next.Err)
	assert.Equal(t, 2, next.Round.RoundNumber)

	st := state(t, r)
	assert.Equal(t, 4, st.Players[0].Score)
	assert.Equal(t, 3, st.Players[1].Score)
	for _, p := range st.Players {
		assert.False(t, p.Guessed)
	}
}
