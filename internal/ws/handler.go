package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wordrush/internal/protocol"
	"wordrush/internal/registry"
	"wordrush/internal/room"
)

// Handler upgrades the connection and runs the per-player message loop.
// Each connection gets an opaque player id, a writer goroutine fed by an
// outbox channel, and a reader loop that translates inbound messages
// into registry/room operations.
func Handler(reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		c := &client{
			id:  uuid.NewString(),
			reg: reg,
			out: make(chan protocol.ServerMessage, 16),
		}
		c.log = log.With(zap.String("player", c.id))
		c.log.Debug("client connected")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-c.out:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Disconnect is an implicit leave.
		defer func() {
			if c.roomCode != "" {
				reg.Inbox() <- registry.RemovePlayer{PlayerID: c.id}
			}
			c.log.Debug("client disconnected")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				c.send(protocol.Error("Invalid message format"))
				continue
			}
			c.dispatch(cm)
		}
	}
}

// client is the per-connection dispatcher state: the player id and, once
// joined, the room affiliation. Nothing else lives here.
type client struct {
	id       string
	reg      *registry.Registry
	roomCode string
	out      chan protocol.ServerMessage
	log      *zap.Logger
}

func (c *client) send(msg protocol.ServerMessage) {
	select {
	case c.out <- msg:
	default:
	}
}

func (c *client) broadcast(msg protocol.ServerMessage) {
	c.reg.Inbox() <- registry.Broadcast{Code: c.roomCode, Event: msg}
}

// lookupRoom resolves the player's room through the registry on every
// message rather than caching the pointer at join time. A room reclaimed
// by the inactivity sweep has a dead inbox; resolving per message keeps
// the dispatcher from ever sending to one. A stale affiliation is
// cleared so the player can create or join again.
func (c *client) lookupRoom() *room.Room {
	if c.roomCode == "" {
		return nil
	}
	reply := make(chan *room.Room, 1)
	c.reg.Inbox() <- registry.GetRoomByPlayer{PlayerID: c.id, Reply: reply}
	rm := <-reply
	if rm == nil {
		c.roomCode = ""
	}
	return rm
}

// gameRoom is lookupRoom plus the error replies game handlers share.
func (c *client) gameRoom() *room.Room {
	if c.roomCode == "" {
		c.send(protocol.Error("Not in a room"))
		return nil
	}
	rm := c.lookupRoom()
	if rm == nil {
		c.send(protocol.Error("Room does not exist"))
	}
	return rm
}

func (c *client) dispatch(cm protocol.ClientMessage) {
	switch cm.Type {
	case protocol.TypeCreateRoom:
		c.handleCreateRoom(cm.Payload)
	case protocol.TypeJoinRoom:
		c.handleJoinRoom(cm.Payload)
	case protocol.TypeStartGame:
		c.handleStartGame()
	case protocol.TypeSubmitGuess:
		c.handleSubmitGuess(cm.Payload)
	case protocol.TypeNextRound:
		c.handleNextRound()
	default:
		c.log.Info("unknown message type", zap.String("type", cm.Type))
	}
}

func (c *client) handleCreateRoom(raw json.RawMessage) {
	var p protocol.CreateRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.PlayerName == "" {
		c.send(protocol.Error("Invalid message format"))
		return
	}
	if c.lookupRoom() != nil {
		c.send(protocol.Error("Already in a room"))
		return
	}
	reply := make(chan registry.CreateReply, 1)
	c.reg.Inbox() <- registry.CreateRoom{HostID: c.id, HostName: p.PlayerName, Outbox: c.out, Reply: reply}
	rep := <-reply
	c.roomCode = rep.Code
	c.log.Info("created room", zap.String("room", rep.Code))
	c.send(protocol.Event(protocol.TypeRoomCreated, protocol.RoomCreatedPayload{
		RoomID:     rep.Code,
		PlayerID:   c.id,
		PlayerName: p.PlayerName,
		Room:       rep.State,
	}))
}

func (c *client) handleJoinRoom(raw json.RawMessage) {
	var p protocol.JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.RoomID == "" || p.PlayerName == "" {
		c.send(protocol.Error("Invalid message format"))
		return
	}
	if c.lookupRoom() != nil {
		c.send(protocol.Error("Already in a room"))
		return
	}
	reply := make(chan registry.AddReply, 1)
	c.reg.Inbox() <- registry.AddPlayer{Code: p.RoomID, PlayerID: c.id, Name: p.PlayerName, Outbox: c.out, Reply: reply}
	rep := <-reply
	if rep.Err != nil {
		c.send(protocol.Error(rep.Err.Error()))
		return
	}
	c.roomCode = p.RoomID
	c.log.Info("joined room", zap.String("room", p.RoomID))
	c.send(protocol.Event(protocol.TypeRoomJoined, protocol.RoomCreatedPayload{
		RoomID:     p.RoomID,
		PlayerID:   c.id,
		PlayerName: p.PlayerName,
		Room:       rep.State,
	}))
	c.broadcast(protocol.Event(protocol.TypePlayerJoined, protocol.RoomEventPayload{Room: rep.State}))
}

func (c *client) handleStartGame() {
	rm := c.gameRoom()
	if rm == nil {
		return
	}
	reply := make(chan room.StartResult, 1)
	rm.Inbox() <- room.StartGame{PlayerID: c.id, Reply: reply}
	res := <-reply
	if res.Err != nil {
		c.send(protocol.Error(res.Err.Error()))
		return
	}
	c.broadcast(protocol.Event(protocol.TypeGameStarted, protocol.RoomEventPayload{Room: res.Room}))
	c.broadcast(protocol.Event(protocol.TypeNewRound, protocol.NewRoundPayload{Round: res.Round, Room: res.Room}))
}

func (c *client) handleSubmitGuess(raw json.RawMessage) {
	var p protocol.SubmitGuessPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.send(protocol.Error("Invalid message format"))
		return
	}
	rm := c.gameRoom()
	if rm == nil {
		return
	}
	reply := make(chan room.GuessResult, 1)
	rm.Inbox() <- room.SubmitGuess{PlayerID: c.id, Guess: p.Guess, Reply: reply}
	res := <-reply
	switch {
	case res.Err != nil:
		c.send(protocol.Error(res.Err.Error()))
	case !res.Correct:
		c.send(protocol.ServerMessage{Type: protocol.TypeIncorrectGuess, Message: "Wrong answer, try again!"})
	default:
		c.send(protocol.Event(protocol.TypeCorrectGuess, protocol.CorrectGuessPayload{
			Points:       res.Points,
			PointsReason: res.PointsReason,
		}))
		c.broadcast(protocol.Event(protocol.TypePlayerGuessedCorrect, protocol.PlayerGuessedPayload{
			PlayerID: c.id,
			Room:     res.Room,
		}))
		if res.RoundComplete {
			c.broadcast(protocol.Event(protocol.TypeRoundEnd, protocol.RoomEventPayload{Room: res.Room}))
		}
	}
}

func (c *client) handleNextRound() {
	rm := c.gameRoom()
	if rm == nil {
		return
	}
	reply := make(chan room.NextRoundResult, 1)
	rm.Inbox() <- room.NextRound{PlayerID: c.id, Reply: reply}
	res := <-reply
	if res.Err != nil {
		// Non-host NEXT_ROUND is dropped, not answered.
		c.log.Debug("next round rejected", zap.Error(res.Err))
		return
	}
	if res.GameOver {
		c.broadcast(protocol.Event(protocol.TypeGameOver, protocol.RoomEventPayload{Room: res.Room}))
		return
	}
	c.broadcast(protocol.Event(protocol.TypeNewRound, protocol.NewRoundPayload{Round: res.Round, Room: res.Room}))
}
