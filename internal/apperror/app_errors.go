package apperror

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidColumn    = errors.New("invalid column")
	ErrFullColumn       = errors.New("column is full")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotInRoom        = errors.New("you are not in a room")
	ErrAlreadyInRoom    = errors.New("you are already in a room")
	ErrMalformedMessage = errors.New("malformed message")
)

const CodeInternal = "INTERNAL"

var codes = []struct {
	err  error
	code string
}{
	{ErrRoomNotFound, "ROOM_NOT_FOUND"},
	{ErrRoomFull, "ROOM_FULL"},
	{ErrNotYourTurn, "NOT_YOUR_TURN"},
	{ErrInvalidColumn, "INVALID_COLUMN"},
	{ErrFullColumn, "FULL_COLUMN"},
	{ErrGameIsNotStarted, "GAME_NOT_STARTED"},
	{ErrGameFinished, "GAME_FINISHED"},
	{ErrNotInRoom, "NOT_IN_ROOM"},
	{ErrAlreadyInRoom, "ALREADY_IN_ROOM"},
	{ErrMalformedMessage, "MALFORMED_MESSAGE"},
}

// Code returns the wire code of the first known error in err's chain, or CodeInternal.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}

// Message returns the text sent to clients. Unknown errors are not leaked.
func Message(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.err.Error()
		}
	}

	return "internal server error"
}
