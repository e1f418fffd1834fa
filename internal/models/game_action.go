// internal/models/game_action.go
package models

import "github.com/google/uuid"

// ActionRecord captures one engine mutation for the action log.
type ActionRecord struct {
	GameID      uuid.UUID              `json:"game_id"`
	ActionIndex int                    `json:"action_index"`
	Actor       string                 `json:"actor"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   int64                  `json:"timestamp"` // unix millis
}
