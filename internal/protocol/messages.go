package protocol

import "encoding/json"

// Client -> server message types.
const (
	TypeCreateRoom  = "CREATE_ROOM"
	TypeJoinRoom    = "JOIN_ROOM"
	TypeStartGame   = "START_GAME"
	TypeSubmitGuess = "SUBMIT_GUESS"
	TypeNextRound   = "NEXT_ROUND"
)

// Server -> client message types.
const (
	TypeRoomCreated          = "ROOM_CREATED"
	TypeRoomJoined           = "ROOM_JOINED"
	TypePlayerJoined         = "PLAYER_JOINED"
	TypeGameStarted          = "GAME_STARTED"
	TypeNewRound             = "NEW_ROUND"
	TypeHintReveal           = "HINT_REVEAL"
	TypeCorrectGuess         = "CORRECT_GUESS"
	TypePlayerGuessedCorrect = "PLAYER_GUESSED_CORRECT"
	TypeRoundEnd             = "ROUND_END"
	TypeGameOver             = "GAME_OVER"
	TypeIncorrectGuess       = "INCORRECT_GUESS"
	TypeError                = "ERROR"
)

// ClientMessage is the inbound envelope. The payload is decoded per type.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type SubmitGuessPayload struct {
	Guess string `json:"guess"`
}

// ServerMessage is the outbound envelope. Structured replies go in
// Payload; INCORRECT_GUESS and ERROR carry a bare Message instead.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
}

func Event(msgType string, payload any) ServerMessage {
	return ServerMessage{Type: msgType, Payload: payload}
}

func Error(message string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: message}
}

// PlayerView is the per-player slice of the public room state. Transport
// handles never appear here.
type PlayerView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Guessed bool   `json:"guessed"`
}

// RoomState is the only room representation ever sent to clients.
// TimeRemaining is null while no round exists.
type RoomState struct {
	RoomID        string       `json:"roomId"`
	HostID        string       `json:"hostId"`
	GameStarted   bool         `json:"gameStarted"`
	CurrentRound  int          `json:"currentRound"`
	TotalRounds   int          `json:"totalRounds"`
	Players       []PlayerView `json:"players"`
	Hints         []string     `json:"hints"`
	TimeRemaining *int         `json:"timeRemaining"`
}

// RoundInfo announces a freshly started round.
type RoundInfo struct {
	RoundNumber   int      `json:"roundNumber"`
	TotalRounds   int      `json:"totalRounds"`
	Hints         []string `json:"hints"`
	TimeRemaining int      `json:"timeRemaining"`
}

type RoomCreatedPayload struct {
	RoomID     string    `json:"roomId"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Room       RoomState `json:"room"`
}

type RoomEventPayload struct {
	Room RoomState `json:"room"`
}

type NewRoundPayload struct {
	Round RoundInfo `json:"round"`
	Room  RoomState `json:"room"`
}

type HintRevealPayload struct {
	Hints []string  `json:"hints"`
	Room  RoomState `json:"room"`
}

type CorrectGuessPayload struct {
	Points       int    `json:"points"`
	PointsReason string `json:"pointsReason"`
}

type PlayerGuessedPayload struct {
	PlayerID string    `json:"playerId"`
	Room     RoomState `json:"room"`
}
