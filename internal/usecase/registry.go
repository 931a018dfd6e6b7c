package usecase

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

const DefaultMaxNameLength = 32

// Departure describes what a leave or disconnect did to the room.
type Departure struct {
	Player *entity.Player
	Room   *entity.Room

	// Remaining players are still connected and must be told about the departure.
	Remaining []*entity.Player

	// RoomClosed is set once the room has been removed from the registry.
	RoomClosed bool

	// GameReset is set when the remaining player keeps the room and the match was wiped.
	GameReset bool
}

type RoomStats struct {
	ID       string            `json:"id"`
	Players  int               `json:"players"`
	Status   entity.RoomStatus `json:"status"`
	GameOver bool              `json:"gameOver"`
	Winner   connectfour.Seat  `json:"winner"`
}

type Stats struct {
	Rooms       int         `json:"rooms"`
	Players     int         `json:"players"`
	RoomDetails []RoomStats `json:"roomDetails"`
}

type Option func(*SessionRegistry)

func WithCodeGenerator(codes CodeGenerator) Option {
	return func(that *SessionRegistry) {
		that.codes = codes
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(that *SessionRegistry) {
		that.newID = newID
	}
}

func WithClock(now func() time.Time) Option {
	return func(that *SessionRegistry) {
		that.now = now
	}
}

func WithMaxNameLength(n int) Option {
	return func(that *SessionRegistry) {
		if n > 0 {
			that.maxNameLength = n
		}
	}
}

// WithCloseOnLeave controls whether a departure tears down the whole room.
func WithCloseOnLeave(closeOnLeave bool) Option {
	return func(that *SessionRegistry) {
		that.closeOnLeave = closeOnLeave
	}
}

// SessionRegistry owns every live room and the connection to player association.
// It is not safe for concurrent use; the dispatcher loop is its only caller.
type SessionRegistry struct {
	logger *slog.Logger

	codes         CodeGenerator
	newID         func() string
	now           func() time.Time
	maxNameLength int
	closeOnLeave  bool

	rooms   map[string]*entity.Room
	players map[string]*entity.Player
}

func NewSessionRegistry(logger *slog.Logger, opts ...Option) *SessionRegistry {
	registry := &SessionRegistry{
		logger: logger,

		codes:         NewRandomCodeGenerator(DefaultCodeLength, DefaultCodeAlphabet),
		newID:         uuid.NewString,
		now:           time.Now,
		maxNameLength: DefaultMaxNameLength,
		closeOnLeave:  true,

		rooms:   make(map[string]*entity.Room),
		players: make(map[string]*entity.Player),
	}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// CreateRoom opens a room under a fresh code and seats the connection as player 1.
func (that *SessionRegistry) CreateRoom(connID, username string) (*entity.Room, *entity.Player, error) {
	log := that.logger.With("method", "CreateRoom", "connID", connID)

	if _, ok := that.players[connID]; ok {
		return nil, nil, apperror.ErrAlreadyInRoom
	}

	now := that.now()
	room := entity.NewRoom(that.uniqueCode(), now)
	player := &entity.Player{
		ID:     that.newID(),
		ConnID: connID,
	}

	seat, _, err := room.Seat(player, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to seat creator: %w", err)
	}
	player.Name = that.displayName(username, int(seat))

	that.rooms[room.ID] = room
	that.players[connID] = player

	log.Info("room created", "roomID", room.ID, "playerID", player.ID, "username", player.Name)

	return room, player, nil
}

// JoinRoom seats the connection in an existing room. started reports that the room just filled up.
func (that *SessionRegistry) JoinRoom(connID, roomID, username string) (*entity.Room, *entity.Player, bool, error) {
	log := that.logger.With("method", "JoinRoom", "connID", connID)

	if _, ok := that.players[connID]; ok {
		return nil, nil, false, apperror.ErrAlreadyInRoom
	}

	roomID = NormalizeRoomID(roomID)

	room, ok := that.rooms[roomID]
	if !ok {
		return nil, nil, false, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	player := &entity.Player{
		ID:     that.newID(),
		ConnID: connID,
	}

	seat, started, err := room.Seat(player, that.now())
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to join room: %w", err)
	}
	player.Name = that.displayName(username, int(seat))

	that.players[connID] = player

	log.Info("player joined room", "roomID", room.ID, "playerID", player.ID, "seat", int(seat))

	return room, player, started, nil
}

// ResolvePlayer finds the player and room bound to a connection.
func (that *SessionRegistry) ResolvePlayer(connID string) (*entity.Player, *entity.Room, bool) {
	player, ok := that.players[connID]
	if !ok {
		return nil, nil, false
	}

	room, ok := that.rooms[player.RoomID]
	if !ok {
		return nil, nil, false
	}

	return player, room, true
}

func (that *SessionRegistry) Room(id string) (*entity.Room, bool) {
	room, ok := that.rooms[NormalizeRoomID(id)]
	return room, ok
}

// Move plays column for the connection's player.
func (that *SessionRegistry) Move(connID string, column int) (*entity.Room, *entity.Player, entity.Move, error) {
	player, room, ok := that.ResolvePlayer(connID)
	if !ok {
		return nil, nil, entity.Move{}, apperror.ErrNotInRoom
	}

	move, err := room.ApplyPlayerMove(player.ID, column, that.now())
	if err != nil {
		return room, player, entity.Move{}, fmt.Errorf("failed to apply move: %w", err)
	}

	return room, player, move, nil
}

// Reset wipes the game in the connection's room.
func (that *SessionRegistry) Reset(connID string) (*entity.Room, error) {
	player, room, ok := that.ResolvePlayer(connID)
	if !ok {
		return nil, apperror.ErrNotInRoom
	}

	room.Reset(that.now())

	that.logger.Info("game reset", "method", "Reset", "roomID", room.ID, "playerID", player.ID)

	return room, nil
}

// Leave removes the connection's player from its room. It reports false when the
// connection held no seat.
func (that *SessionRegistry) Leave(connID string) (*Departure, bool) {
	log := that.logger.With("method", "Leave", "connID", connID)

	player, room, ok := that.ResolvePlayer(connID)
	delete(that.players, connID)
	if !ok {
		return nil, false
	}

	now := that.now()
	room.RemovePlayer(player.ID, now)

	departure := &Departure{
		Player:    player,
		Room:      room,
		Remaining: room.Players(),
	}

	switch {
	case room.IsEmpty():
		departure.RoomClosed = true
	case that.closeOnLeave:
		for _, p := range departure.Remaining {
			room.RemovePlayer(p.ID, now)
			delete(that.players, p.ConnID)
		}
		departure.RoomClosed = true
	default:
		room.Reset(now)
		departure.GameReset = true
	}

	if departure.RoomClosed {
		delete(that.rooms, room.ID)
		log.Info("room deleted", "roomID", room.ID)
	}

	log.Info("player left room", "roomID", room.ID, "playerID", player.ID, "username", player.Name)

	return departure, true
}

// Disconnect is the teardown path for a dropped connection.
func (that *SessionRegistry) Disconnect(connID string) (*Departure, bool) {
	return that.Leave(connID)
}

func (that *SessionRegistry) Stats() Stats {
	stats := Stats{
		Rooms:       len(that.rooms),
		Players:     len(that.players),
		RoomDetails: make([]RoomStats, 0, len(that.rooms)),
	}

	for _, room := range that.rooms {
		stats.RoomDetails = append(stats.RoomDetails, RoomStats{
			ID:       room.ID,
			Players:  len(room.Players()),
			Status:   room.Status(),
			GameOver: room.Game.GameOver,
			Winner:   room.Game.Winner,
		})
	}

	slices.SortFunc(stats.RoomDetails, func(a, b RoomStats) int {
		return strings.Compare(a.ID, b.ID)
	})

	return stats
}

func (that *SessionRegistry) uniqueCode() string {
	for {
		code := that.codes.Generate()
		if _, taken := that.rooms[code]; !taken {
			return code
		}

		that.logger.Debug("room code collision, regenerating", "code", code)
	}
}

func (that *SessionRegistry) displayName(username string, seat int) string {
	name := strings.TrimSpace(username)
	if name == "" {
		return "Player " + strconv.Itoa(seat)
	}

	if utf8.RuneCountInString(name) > that.maxNameLength {
		name = string([]rune(name)[:that.maxNameLength])
	}

	return name
}

// NormalizeRoomID makes user-typed codes match generated ones.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
