package room

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"wordrush/internal/protocol"
	"wordrush/internal/round"
	"wordrush/internal/words"
)

const (
	MaxPlayers  = 8
	TotalRounds = 5
)

type playerState struct {
	id      string
	name    string
	score   int
	guessed bool
	outbox  chan protocol.ServerMessage // nil while disconnected
}

// Room is a single game session run as one goroutine. All mutation goes
// through the inbox, so state needs no lock; different rooms share
// nothing but the word provider.
type Room struct {
	code  string
	inbox chan Msg
	words words.Provider
	log   *zap.Logger

	hostID  string
	order   []string // player ids in insertion order
	players map[string]*playerState

	started      bool
	currentRound int
	cur          *round.Round

	roundDuration time.Duration
	hintInterval  time.Duration

	lastActivity atomic.Int64 // unix nanos, read by the registry sweep

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a room with the host as its first player and starts the
// actor loop.
func New(parent context.Context, code, hostID, hostName string, outbox chan protocol.ServerMessage,
	provider words.Provider, log *zap.Logger, duration, interval time.Duration) *Room {

	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		code:          code,
		inbox:         make(chan Msg, 64),
		words:         provider,
		log:           log,
		hostID:        hostID,
		order:         []string{hostID},
		players:       map[string]*playerState{hostID: {id: hostID, name: hostName, outbox: outbox}},
		roundDuration: duration,
		hintInterval:  interval,
		ctx:           ctx,
		cancel:        cancel,
	}
	r.touch()
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

// LastActivity is safe to call from outside the actor loop.
func (r *Room) LastActivity() time.Time {
	return time.Unix(0, r.lastActivity.Load())
}

func (r *Room) touch() {
	r.lastActivity.Store(time.Now().UnixNano())
}

func (r *Room) loop() {
	for {
		// A nil channel blocks forever, so reveal events are only
		// selected while a round exists.
		var reveals <-chan round.Reveal
		if r.cur != nil {
			reveals = r.cur.Reveals()
		}

		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case ev := <-reveals:
			r.handleReveal(ev)

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- r.handleJoin(msg)
			case Attach:
				if p := r.players[msg.PlayerID]; p != nil {
					p.outbox = msg.Outbox
				}
			case Leave:
				msg.Reply <- r.handleLeave(msg.PlayerID)
			case StartGame:
				msg.Reply <- r.handleStartGame(msg.PlayerID)
			case NextRound:
				msg.Reply <- r.handleNextRound(msg.PlayerID)
			case SubmitGuess:
				msg.Reply <- r.handleGuess(msg.PlayerID, msg.Guess)
			case Broadcast:
				r.broadcast(msg.Event)
			case GetState:
				msg.Reply <- r.snapshot()
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	if r.cur != nil {
		r.cur.Stop()
	}
	r.cancel()
}

// handleReveal applies a scheduled hint reveal. Events from a stopped or
// superseded round are dropped here, inside the serialized path, so a
// reveal racing a round's end never lands out of order.
func (r *Room) handleReveal(ev round.Reveal) {
	if r.cur == nil || ev.RoundNumber != r.cur.Number() || r.cur.Stopped() {
		return
	}
	r.log.Debug("hint revealed",
		zap.Int("round", ev.RoundNumber),
		zap.Int("hintIndex", ev.HintIndex))
	r.broadcast(protocol.Event(protocol.TypeHintReveal, protocol.HintRevealPayload{
		Hints: ev.Hints,
		Room:  r.snapshot(),
	}))
}

func (r *Room) handleJoin(msg Join) JoinResult {
	if len(r.players) >= MaxPlayers {
		return JoinResult{Err: ErrRoomFull}
	}
	if r.started {
		return JoinResult{Err: ErrGameStarted}
	}
	r.players[msg.PlayerID] = &playerState{id: msg.PlayerID, name: msg.Name, outbox: msg.Outbox}
	r.order = append(r.order, msg.PlayerID)
	r.touch()
	return JoinResult{Room: r.snapshot()}
}

func (r *Room) handleLeave(playerID string) LeaveResult {
	if _, ok := r.players[playerID]; ok {
		delete(r.players, playerID)
		for i, id := range r.order {
			if id == playerID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		// Departing host hands off to the first remaining player.
		if playerID == r.hostID && len(r.order) > 0 {
			r.hostID = r.order[0]
		}
		r.touch()
	}
	return LeaveResult{Remaining: len(r.players), HostID: r.hostID}
}

func (r *Room) handleStartGame(playerID string) StartResult {
	if playerID != r.hostID {
		return StartResult{Err: ErrNotHost}
	}
	if r.started {
		return StartResult{Err: ErrGameStarted}
	}
	if len(r.players) == 0 {
		return StartResult{Err: ErrNoPlayers}
	}
	r.started = true
	r.currentRound = 0
	for _, p := range r.players {
		p.score = 0
	}
	info := r.startRound()
	r.touch()
	r.log.Info("game started", zap.Int("players", len(r.players)))
	return StartResult{Round: info, Room: r.snapshot()}
}

func (r *Room) handleNextRound(playerID string) NextRoundResult {
	if playerID != r.hostID {
		return NextRoundResult{Err: ErrNotHost}
	}
	if r.currentRound >= TotalRounds {
		r.touch()
		r.log.Info("game over", zap.Int("rounds", r.currentRound))
		return NextRoundResult{GameOver: true, Room: r.snapshot()}
	}
	info := r.startRound()
	r.touch()
	return NextRoundResult{Round: info, Room: r.snapshot()}
}

// startRound advances to the next round: fresh guessed flags, a random
// corpus draw, and a running round timer. The previous round's timers
// are stopped before it is discarded.
func (r *Room) startRound() protocol.RoundInfo {
	if r.cur != nil {
		r.cur.Stop()
	}
	r.currentRound++
	for _, p := range r.players {
		p.guessed = false
	}
	entry := r.words.Random()
	r.cur = round.New(r.currentRound, entry.Word, entry.Hints, r.roundDuration, r.hintInterval)
	r.log.Info("round started",
		zap.Int("round", r.currentRound),
		zap.Int("total", TotalRounds))
	return protocol.RoundInfo{
		RoundNumber:   r.currentRound,
		TotalRounds:   TotalRounds,
		Hints:         r.cur.RevealedHints(),
		TimeRemaining: r.cur.Remaining(),
	}
}

func (r *Room) handleGuess(playerID, guess string) GuessResult {
	if r.cur == nil {
		return GuessResult{Err: ErrNoRound}
	}
	p, ok := r.players[playerID]
	if !ok {
		return GuessResult{Err: ErrPlayerNotFound}
	}
	if p.guessed {
		return GuessResult{Err: ErrAlreadyGuessed}
	}
	if !r.cur.CheckGuess(guess) {
		return GuessResult{}
	}

	p.guessed = true
	points := r.cur.Points()
	p.score += points
	r.touch()

	complete := r.isRoundComplete()
	if complete {
		r.endCurrentRound()
	}
	r.log.Debug("correct guess",
		zap.String("player", playerID),
		zap.Int("points", points),
		zap.Bool("roundComplete", complete))
	return GuessResult{
		Correct:       true,
		Points:        points,
		PointsReason:  round.Reason(points),
		RoundComplete: complete,
		Room:          r.snapshot(),
	}
}

// isRoundComplete holds when every present player has guessed or the
// clock ran out.
func (r *Room) isRoundComplete() bool {
	allGuessed := true
	for _, p := range r.players {
		if !p.guessed {
			allGuessed = false
			break
		}
	}
	return allGuessed || (r.cur != nil && r.cur.Expired())
}

// endCurrentRound stops the reveal schedule but keeps the round around
// so its hints stay visible on the round-end display.
func (r *Room) endCurrentRound() {
	if r.cur != nil {
		r.cur.Stop()
	}
	r.touch()
}

func (r *Room) broadcast(ev protocol.ServerMessage) {
	for _, id := range r.order {
		p := r.players[id]
		if p.outbox == nil {
			continue // disconnected players just miss the event
		}
		select {
		case p.outbox <- ev:
		default:
			// Never block the room on a slow client.
		}
	}
}

func (r *Room) snapshot() protocol.RoomState {
	players := make([]protocol.PlayerView, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		players = append(players, protocol.PlayerView{
			ID:      p.id,
			Name:    p.name,
			Score:   p.score,
			Guessed: p.guessed,
		})
	}
	state := protocol.RoomState{
		RoomID:       r.code,
		HostID:       r.hostID,
		GameStarted:  r.started,
		CurrentRound: r.currentRound,
		TotalRounds:  TotalRounds,
		Players:      players,
		Hints:        []string{},
	}
	if r.cur != nil {
		state.Hints = r.cur.RevealedHints()
		remaining := r.cur.Remaining()
		state.TimeRemaining = &remaining
	}
	return state
}
