package sim

import "errors"

var (
	// ErrEmptyPool is returned by WaitingPool.ExtractMax when no request is waiting.
	ErrEmptyPool = errors.New("waiting pool is empty")

	// ErrAlreadyOccupied is returned by Runway.Occupy while another request holds the runway.
	ErrAlreadyOccupied = errors.New("runway already occupied")

	// ErrInvalidRequest wraps every admission validation failure.
	ErrInvalidRequest = errors.New("invalid request")
)
