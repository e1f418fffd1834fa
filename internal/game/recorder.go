// internal/game/recorder.go
package game

import (
	"time"

	"github.com/jason-s-yu/daifugo/internal/models"
)

// ActionRecorder receives one record per engine mutation. Implementations must
// not block the caller.
type ActionRecorder interface {
	RecordAction(rec models.ActionRecord)
}

// ActionRecorderFunc adapts a plain function to ActionRecorder.
type ActionRecorderFunc func(rec models.ActionRecord)

func (f ActionRecorderFunc) RecordAction(rec models.ActionRecord) { f(rec) }

type noopRecorder struct{}

func (noopRecorder) RecordAction(models.ActionRecord) {}

// Action types written to the log.
const (
	ActionDeal          = "game_deal"
	ActionPlay          = "player_play"
	ActionPass          = "player_pass"
	ActionRoundReset    = "round_reset"
	ActionCheatDecline  = "cheat_decline"
	ActionCheatResolve  = "cheat_resolve"
	ActionCaught        = "player_caught"
	ActionFinish        = "player_finish"
	ActionSkipped       = "player_skipped"
	ActionSkipFlag      = "skip_flag"
	ActionForcePass     = "force_pass"
	ActionRelationship  = "relationship_update"
	ActionFear          = "fear_update"
	ActionChat          = "social_chat"
	ActionObserve       = "social_observe"
	ActionAllianceOffer = "social_alliance_offer"
	ActionAccuse        = "social_accuse"
	ActionRenounce      = "social_renounce"
	ActionGameOver      = "game_end"
)

func (e *Engine) logAction(actor, actionType string, payload map[string]interface{}) {
	e.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	e.recorder.RecordAction(models.ActionRecord{
		GameID:      e.ID,
		ActionIndex: e.actionIndex,
		Actor:       actor,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   e.now().UnixMilli(),
	})
}

func defaultClock() time.Time { return time.Now() }
