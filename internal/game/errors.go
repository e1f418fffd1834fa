// internal/game/errors.go
package game

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/cards"
)

// ErrIllegalMove is returned for any move the rules reject. State is unchanged.
var ErrIllegalMove = cards.ErrIllegalMove

var (
	ErrCardNotOwned = fmt.Errorf("%w: card not in hand", ErrIllegalMove)
	ErrForcedPass   = fmt.Errorf("%w: player must pass this turn", ErrIllegalMove)

	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrWrongPhase    = errors.New("action not allowed in current phase")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrInvalidTarget = errors.New("invalid target")
	ErrNotQueueHead  = errors.New("player is not at the head of the cheat queue")
	ErrBadSetup      = errors.New("invalid table setup")
)
