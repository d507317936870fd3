package game

import "errors"

// Precondition violations reported by the engine. These are absorbed at the
// call site (logged, no state change); they never propagate as failures.
var (
	ErrGameFull      = errors.New("game already has four seated players")
	ErrWrongState    = errors.New("operation not legal in current game state")
	ErrUnknownPlayer = errors.New("player is not seated in this game")
	ErrAlreadySeated = errors.New("player is already seated")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrIllegalCard   = errors.New("card is not legal for this trick")
	ErrCardNotInHand = errors.New("card is not in the player's hand")
	ErrUnknownCard   = errors.New("unknown card code")
	ErrBadTrump      = errors.New("invalid trump mode")
	ErrTrickNotDone  = errors.New("trick is not complete")
	ErrShortDeck     = errors.New("deck does not hold the full 32 cards")
)
