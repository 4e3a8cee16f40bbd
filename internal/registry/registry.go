package registry

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"go.uber.org/zap"

	"wordrush/internal/protocol"
	"wordrush/internal/room"
	"wordrush/internal/round"
	"wordrush/internal/words"
)

// InactivityTimeout is how long a room may sit without a mutating
// operation before the sweep reclaims it.
const InactivityTimeout = 24 * time.Hour

const (
	codeLength  = 4
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrRoomNotFound = errors.New("Room does not exist")

type Msg interface{ isRegistryMsg() }

// CreateRoom makes a fresh room with the sender as host.
type CreateRoom struct {
	HostID   string
	HostName string
	Outbox   chan protocol.ServerMessage
	Reply    chan CreateReply
}

type CreateReply struct {
	Code  string
	Room  *room.Room
	State protocol.RoomState
}

// AddPlayer joins an existing room and maintains the player index.
type AddPlayer struct {
	Code     string
	PlayerID string
	Name     string
	Outbox   chan protocol.ServerMessage
	Reply    chan AddReply
}

type AddReply struct {
	Err   error
	Room  *room.Room
	State protocol.RoomState
}

// RemovePlayer resolves the player's room via the index, removes them,
// and deletes the room when it empties. Reply is optional.
type RemovePlayer struct {
	PlayerID string
	Reply    chan struct{}
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type GetRoomByPlayer struct {
	PlayerID string
	Reply    chan *room.Room
}

// Broadcast delivers an event to every connected player in a room.
type Broadcast struct {
	Code  string
	Event protocol.ServerMessage
}

// Sweep deletes rooms idle for longer than IdleFor. Driven by a
// periodic ticker in main, not by the request path. Reply is optional
// and carries the number of rooms removed.
type Sweep struct {
	IdleFor time.Duration
	Reply   chan int
}

type Stats struct {
	Reply chan StatsReply
}

type StatsReply struct {
	Rooms   int
	Players int
}

type ShutdownRegistry struct{}

func (CreateRoom) isRegistryMsg()       {}
func (AddPlayer) isRegistryMsg()        {}
func (RemovePlayer) isRegistryMsg()     {}
func (GetRoom) isRegistryMsg()          {}
func (GetRoomByPlayer) isRegistryMsg()  {}
func (Broadcast) isRegistryMsg()        {}
func (Sweep) isRegistryMsg()            {}
func (Stats) isRegistryMsg()            {}
func (ShutdownRegistry) isRegistryMsg() {}

// Registry owns every live room and the player->room index. Structure
// changes are serialized through its loop; rooms themselves run their
// own loops, so unrelated rooms never wait on each other for game
// operations.
type Registry struct {
	inbox      chan Msg
	rooms      map[string]*room.Room
	playerRoom map[string]string
	words      words.Provider
	log        *zap.Logger

	roundDuration time.Duration
	hintInterval  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, provider words.Provider, log *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	reg := &Registry{
		inbox:         make(chan Msg, 64),
		rooms:         make(map[string]*room.Room),
		playerRoom:    make(map[string]string),
		words:         provider,
		log:           log,
		roundDuration: round.Duration,
		hintInterval:  round.HintInterval,
		ctx:           ctx,
		cancel:        cancel,
	}
	go reg.loop()
	return reg
}

func (reg *Registry) Inbox() chan<- Msg { return reg.inbox }

func (reg *Registry) loop() {
	for {
		select {
		case <-reg.ctx.Done():
			reg.shutdown()
			return

		case m := <-reg.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- reg.handleCreate(msg)

			case AddPlayer:
				msg.Reply <- reg.handleAdd(msg)

			case RemovePlayer:
				reg.handleRemove(msg.PlayerID)
				if msg.Reply != nil {
					msg.Reply <- struct{}{}
				}

			case GetRoom:
				msg.Reply <- reg.rooms[msg.Code] // may be nil

			case GetRoomByPlayer:
				msg.Reply <- reg.rooms[reg.playerRoom[msg.PlayerID]]

			case Broadcast:
				if rm := reg.rooms[msg.Code]; rm != nil {
					rm.Inbox() <- room.Broadcast{Event: msg.Event}
				}

			case Sweep:
				removed := reg.handleSweep(msg.IdleFor)
				if msg.Reply != nil {
					msg.Reply <- removed
				}

			case Stats:
				msg.Reply <- StatsReply{Rooms: len(reg.rooms), Players: len(reg.playerRoom)}

			case ShutdownRegistry:
				reg.shutdown()
				return
			}
		}
	}
}

func (reg *Registry) shutdown() {
	for code, rm := range reg.rooms {
		rm.Inbox() <- room.Shutdown{}
		delete(reg.rooms, code)
	}
	clear(reg.playerRoom)
	reg.cancel()
}

func (reg *Registry) handleCreate(msg CreateRoom) CreateReply {
	code := reg.generateCode()
	rm := room.New(reg.ctx, code, msg.HostID, msg.HostName, msg.Outbox,
		reg.words, reg.log.With(zap.String("room", code)),
		reg.roundDuration, reg.hintInterval)
	reg.rooms[code] = rm
	reg.playerRoom[msg.HostID] = code
	reg.log.Info("room created", zap.String("room", code), zap.String("host", msg.HostID))

	state := make(chan protocol.RoomState, 1)
	rm.Inbox() <- room.GetState{Reply: state}
	return CreateReply{Code: code, Room: rm, State: <-state}
}

func (reg *Registry) handleAdd(msg AddPlayer) AddReply {
	rm := reg.rooms[msg.Code]
	if rm == nil {
		return AddReply{Err: ErrRoomNotFound}
	}
	reply := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{PlayerID: msg.PlayerID, Name: msg.Name, Outbox: msg.Outbox, Reply: reply}
	res := <-reply
	if res.Err != nil {
		return AddReply{Err: res.Err}
	}
	reg.playerRoom[msg.PlayerID] = msg.Code
	return AddReply{Room: rm, State: res.Room}
}

func (reg *Registry) handleRemove(playerID string) {
	code, ok := reg.playerRoom[playerID]
	if !ok {
		return
	}
	delete(reg.playerRoom, playerID)
	rm := reg.rooms[code]
	if rm == nil {
		return
	}
	reply := make(chan room.LeaveResult, 1)
	rm.Inbox() <- room.Leave{PlayerID: playerID, Reply: reply}
	res := <-reply
	if res.Remaining == 0 {
		rm.Inbox() <- room.Shutdown{}
		delete(reg.rooms, code)
		reg.log.Info("room deleted", zap.String("room", code))
	}
}

func (reg *Registry) handleSweep(idleFor time.Duration) int {
	now := time.Now()
	removed := 0
	for code, rm := range reg.rooms {
		if now.Sub(rm.LastActivity()) <= idleFor {
			continue
		}
		rm.Inbox() <- room.Shutdown{}
		delete(reg.rooms, code)
		for id, c := range reg.playerRoom {
			if c == code {
				delete(reg.playerRoom, id)
			}
		}
		removed++
		reg.log.Info("swept inactive room", zap.String("room", code))
	}
	return removed
}

// generateCode draws 4-char uppercase-alphanumeric codes until one is
// free among live rooms. Collisions are handled by rejection sampling,
// never by widening the code.
func (reg *Registry) generateCode() string {
	for {
		code := make([]byte, codeLength)
		for i := 0; i < codeLength; {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
			if err != nil {
				continue // entropy source hiccup, retry this position
			}
			code[i] = codeCharset[n.Int64()]
			i++
		}
		if _, taken := reg.rooms[string(code)]; !taken {
			return string(code)
		}
	}
}
