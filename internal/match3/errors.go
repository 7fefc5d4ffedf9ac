package match3

import "errors"

var (
	// ErrIndexOutOfRange is returned when a caller passes a cell index
	// outside [0, N²). It signals caller misuse, never player input.
	ErrIndexOutOfRange = errors.New("match3: index out of range")

	// ErrInvalidConfig is returned for malformed engine configuration or
	// board fixtures.
	ErrInvalidConfig = errors.New("match3: invalid config")

	// ErrInvalidSymbol is returned when a symbol outside the alphabet is
	// written to the board.
	ErrInvalidSymbol = errors.New("match3: invalid symbol")

	// ErrBusy is returned by board edits attempted while a resolution
	// sequence is in flight.
	ErrBusy = errors.New("match3: resolution in progress")
)
