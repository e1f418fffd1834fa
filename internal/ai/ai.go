// Package ai talks to the text-generation service that plays automated
// opponents. Nothing here touches engine state: callers pass in views and
// get back indices, records or text, and must substitute defaults on error.
package ai

import (
	"context"
	"errors"

	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/relations"
)

// ErrCollaborator wraps every call or parse failure.
var ErrCollaborator = errors.New("collaborator failure")

// MovePreview is how many enumerated moves the model is shown.
const MovePreview = 5

// MaxHintRunes bounds an observation hint.
const MaxHintRunes = 80

// MoveContext is what a player can see when choosing a move.
type MoveContext struct {
	Player      string
	Personality models.Personality
	Hand        []cards.Card
	Table       game.Snapshot
}

// ActionKind is a spontaneous social action.
type ActionKind string

const (
	ActionNone      ActionKind = "none"
	ActionChat      ActionKind = "chat"
	ActionCooperate ActionKind = "cooperate"
	ActionAccuse    ActionKind = "accuse"
)

// Action is a spontaneous social move proposed by the model.
type Action struct {
	Kind    ActionKind `json:"type"`
	Target  string     `json:"target"`
	Message string     `json:"message"`
}

// Collaborator is the automated-decision service.
type Collaborator interface {
	ChooseMove(ctx context.Context, mc MoveContext, moves []cards.Move) (int, error)
	GeneratePersonality(ctx context.Context, seat string) (models.Personality, error)
	ChatReply(ctx context.Context, speaker models.Personality, from, message string, affinity int) (string, error)
	ObservationHint(ctx context.Context, target models.Personality, handCount int, strongest string) (string, error)
	CounterMeasure(ctx context.Context, defender models.Personality, attacker, cheat string) (string, error)
	EvaluateCheat(ctx context.Context, cheat, counter string) (models.Evaluation, error)
	DescribeCheat(ctx context.Context, attacker models.Personality, target string) (string, error)
	DecideAction(ctx context.Context, actor models.Personality, self string, view []relations.Entry) (Action, error)
}

// Completer sends one system+user prompt pair and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
