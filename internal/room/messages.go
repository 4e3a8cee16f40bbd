package room

import (
	"errors"

	"wordrush/internal/protocol"
)

// Rule violations travel to the offending player verbatim, so the texts
// are client-facing.
var (
	ErrRoomFull       = errors.New("Room is full")
	ErrGameStarted    = errors.New("Game has already started")
	ErrNoPlayers      = errors.New("No players in room")
	ErrNotHost        = errors.New("Only host can start game")
	ErrNoRound        = errors.New("No round in progress")
	ErrPlayerNotFound = errors.New("Player not found")
	ErrAlreadyGuessed = errors.New("Already guessed")
)

type Msg interface{ isRoomMsg() }

// Join adds a player. Fails once the game has started or at capacity.
type Join struct {
	PlayerID string
	Name     string
	Outbox   chan protocol.ServerMessage
	Reply    chan JoinResult
}

type JoinResult struct {
	Err  error
	Room protocol.RoomState
}

// Attach re-binds a player's transport handle without touching game
// state.
type Attach struct {
	PlayerID string
	Outbox   chan protocol.ServerMessage
}

// Leave removes a player, reassigning the host if needed. The reply
// tells the registry whether the room is now empty.
type Leave struct {
	PlayerID string
	Reply    chan LeaveResult
}

type LeaveResult struct {
	Remaining int
	HostID    string
}

// StartGame begins round 1. Host only.
type StartGame struct {
	PlayerID string
	Reply    chan StartResult
}

type StartResult struct {
	Err   error
	Round protocol.RoundInfo
	Room  protocol.RoomState
}

// NextRound advances to the next round, or reports game over when all
// rounds are played. Host only.
type NextRound struct {
	PlayerID string
	Reply    chan NextRoundResult
}

type NextRoundResult struct {
	Err      error
	GameOver bool
	Round    protocol.RoundInfo
	Room     protocol.RoomState
}

// SubmitGuess adjudicates one guess against the active round.
type SubmitGuess struct {
	PlayerID string
	Guess    string
	Reply    chan GuessResult
}

type GuessResult struct {
	Err           error // rule violation; no state changed
	Correct       bool
	Points        int
	PointsReason  string
	RoundComplete bool
	Room          protocol.RoomState
}

// Broadcast fans an event out to every connected player in the room.
type Broadcast struct {
	Event protocol.ServerMessage
}

// GetState returns the public projection without data races.
type GetState struct {
	Reply chan protocol.RoomState
}

type Shutdown struct{}

func (Join) isRoomMsg()        {}
func (Attach) isRoomMsg()      {}
func (Leave) isRoomMsg()       {}
func (StartGame) isRoomMsg()   {}
func (NextRound) isRoomMsg()   {}
func (SubmitGuess) isRoomMsg() {}
func (Broadcast) isRoomMsg()   {}
func (GetState) isRoomMsg()    {}
func (Shutdown) isRoomMsg()    {}
