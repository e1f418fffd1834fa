// internal/game/social.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/relations"
)

// MessageKind tags a conversation log entry.
type MessageKind string

const (
	KindChat          MessageKind = "chat"
	KindObserve       MessageKind = "observe"
	KindCooperate     MessageKind = "cooperate"
	KindAccuse        MessageKind = "accuse"
	KindBreakAlliance MessageKind = "break_alliance"
)

// Message is one line in a pair's conversation log.
type Message struct {
	Sender string      `json:"sender"`
	Text   string      `json:"text"`
	Kind   MessageKind `json:"kind"`
}

type convKey struct{ a, b string }

func conversationKey(a, b string) convKey {
	if b < a {
		a, b = b, a
	}
	return convKey{a, b}
}

func (e *Engine) appendMessage(a, b string, msg Message) {
	k := conversationKey(a, b)
	e.conversations[k] = append(e.conversations[k], msg)
}

// Conversation returns the log between a and b, oldest first.
func (e *Engine) Conversation(a, b string) []Message {
	return append([]Message(nil), e.conversations[conversationKey(a, b)]...)
}

// RevealedInfo returns the hints player has gathered. Only show it to player.
func (e *Engine) RevealedInfo(player string) []string {
	return append([]string(nil), e.revealed[player]...)
}

// Affinity returns the pair's symmetric affinity.
func (e *Engine) Affinity(a, b string) int { return e.ledger.Affinity(a, b) }

// Fear returns the pair's symmetric fear.
func (e *Engine) Fear(a, b string) int { return e.ledger.Fear(a, b) }

// Relationships returns player's view of everyone else.
func (e *Engine) Relationships(player string) []relations.Entry {
	return e.ledger.View(player, e.players)
}

// PartnerOf returns player's alliance partner.
func (e *Engine) PartnerOf(player string) (string, bool) { return e.alliances.PartnerOf(player) }

// UpdateRelationship shifts the pair's affinity by delta, clamped.
func (e *Engine) UpdateRelationship(a, b string, delta int) error {
	if err := e.checkPair(a, b); err != nil {
		return err
	}
	e.updateRelationship(a, b, delta)
	e.verify()
	return nil
}

// UpdateFear shifts the pair's fear by delta, clamped.
func (e *Engine) UpdateFear(a, b string, delta int) error {
	if err := e.checkPair(a, b); err != nil {
		return err
	}
	v := e.ledger.UpdateFear(a, b, delta)
	e.logAction(a, ActionFear, map[string]interface{}{"other": b, "delta": delta, "value": v})
	e.verify()
	return nil
}

func (e *Engine) updateRelationship(a, b string, delta int) {
	v := e.ledger.UpdateRelationship(a, b, delta)
	e.logAction(a, ActionRelationship, map[string]interface{}{"other": b, "delta": delta, "value": v})
}

func (e *Engine) checkPair(a, b string) error {
	if err := e.mustSeat(a); err != nil {
		return err
	}
	if err := e.mustSeat(b); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: %q cannot target themselves", ErrInvalidTarget, a)
	}
	return nil
}

// Chat logs a line from one player to another and the reply, if any. An
// answered chat warms the pair by ChatBonus.
func (e *Engine) Chat(from, to, text, reply string) error {
	if err := e.checkPair(from, to); err != nil {
		return err
	}
	e.appendMessage(from, to, Message{Sender: from, Text: text, Kind: KindChat})
	if reply != "" {
		e.appendMessage(from, to, Message{Sender: to, Text: reply, Kind: KindChat})
		e.updateRelationship(from, to, e.Rules.ChatBonus)
	}
	e.logAction(from, ActionChat, map[string]interface{}{"to": to, "answered": reply != ""})
	e.verify()
	return nil
}

// Observe stores hint in the observer's revealed info. Being watched costs
// ObservePenalty affinity.
func (e *Engine) Observe(observer, target, hint string) error {
	if err := e.checkPair(observer, target); err != nil {
		return err
	}
	e.revealed[observer] = append(e.revealed[observer], fmt.Sprintf("[%s] %s", target, hint))
	e.appendMessage(observer, target, Message{Sender: observer, Text: "(observes quietly)", Kind: KindObserve})
	e.updateRelationship(observer, target, -e.Rules.ObservePenalty)
	e.logAction(observer, ActionObserve, map[string]interface{}{"target": target})
	e.verify()
	return nil
}

// OfferAlliance asks to to ally with from. The target accepts with
// probability cooperation * (affinity+100) / 200, scaled by
// AllianceAcceptScale. Acceptance replaces any existing pact on either side.
func (e *Engine) OfferAlliance(from, to string, cooperation float64) (bool, error) {
	if err := e.checkPair(from, to); err != nil {
		return false, err
	}
	if e.alliances.Allied(from, to) {
		return true, nil
	}
	chance := cooperation * float64(e.ledger.Affinity(from, to)+100) / 200 * e.Rules.AllianceAcceptScale
	accepted := e.src.Float64() < chance

	if accepted {
		dropped := e.alliances.Propose(from, to)
		e.updateRelationship(from, to, e.Rules.AllianceAcceptBonus)
		e.appendMessage(from, to, Message{Sender: to, Text: "accepted the alliance", Kind: KindCooperate})
		if len(dropped) > 0 {
			e.log.WithFields(e.fields(from)).WithField("dropped", dropped).Debug("old alliances replaced")
		}
	} else {
		e.updateRelationship(from, to, -e.Rules.AllianceRejectPenalty)
		e.appendMessage(from, to, Message{Sender: to, Text: "rejected the alliance", Kind: KindCooperate})
	}
	e.logAction(from, ActionAllianceOffer, map[string]interface{}{
		"to":       to,
		"chance":   chance,
		"accepted": accepted,
	})
	e.verify()
	return accepted, nil
}

// ProposeAlliance binds a and b unconditionally, breaking older pacts first.
func (e *Engine) ProposeAlliance(a, b string) error {
	if err := e.checkPair(a, b); err != nil {
		return err
	}
	e.alliances.Propose(a, b)
	e.logAction(a, ActionAllianceOffer, map[string]interface{}{"to": b, "accepted": true, "forced": true})
	e.verify()
	return nil
}

// BreakAlliance clears the pact only if a and b hold it with each other.
func (e *Engine) BreakAlliance(a, b string) bool {
	broke := e.alliances.Break(a, b)
	e.verify()
	return broke
}

// Accuse costs AccusePenalty affinity. If the target really was caught, the
// accusation costs AccuseConfirmedBonus more and is noted in the accuser's
// revealed info. It reports whether the accusation was confirmed.
func (e *Engine) Accuse(accuser, target string) (bool, error) {
	if err := e.checkPair(accuser, target); err != nil {
		return false, err
	}
	confirmed := e.caughtSet[target]
	delta := -e.Rules.AccusePenalty
	if confirmed {
		delta -= e.Rules.AccuseConfirmedBonus
		e.revealed[accuser] = append(e.revealed[accuser], fmt.Sprintf("[%s] confirmed cheater", target))
	}
	e.updateRelationship(accuser, target, delta)
	e.appendMessage(accuser, target, Message{Sender: accuser, Text: "accused " + target + " of cheating", Kind: KindAccuse})
	e.logAction(accuser, ActionAccuse, map[string]interface{}{"target": target, "confirmed": confirmed})
	e.verify()
	return confirmed, nil
}

// RenounceAlliance ends the pact between a and b at a cost of RenouncePenalty
// affinity. It is a no-op when they are not allied.
func (e *Engine) RenounceAlliance(a, b string) (bool, error) {
	if err := e.checkPair(a, b); err != nil {
		return false, err
	}
	if !e.alliances.Break(a, b) {
		return false, nil
	}
	e.updateRelationship(a, b, -e.Rules.RenouncePenalty)
	e.appendMessage(a, b, Message{Sender: a, Text: "renounced the alliance", Kind: KindBreakAlliance})
	e.logAction(a, ActionRenounce, map[string]interface{}{"other": b})
	e.verify()
	return true, nil
}
