// internal/match/social.go
package match

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/ai"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/sirupsen/logrus"
)

// AllianceRequest is the line spoken when offering an alliance.
const AllianceRequest = "Let's team up against the others."

// ObservationFallback is the truthful hint used when no collaborator answers.
func ObservationFallback(target string, handCount int) string {
	return fmt.Sprintf("%s is holding %d cards.", target, handCount)
}

// Chat sends text from one player to another. The recipient answers through
// the collaborator; an answered chat warms the pair.
func (s *Session) Chat(ctx context.Context, from, to, text string) (string, error) {
	if err := s.checkPair(from, to); err != nil {
		return "", err
	}
	reply := s.reply(ctx, to, from, text)
	if err := s.Engine.Chat(from, to, text, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// Observe reads target for a hint about their hand. Dishonest targets may
// hand back a false hint when a collaborator is configured.
func (s *Session) Observe(ctx context.Context, observer, target string) (string, error) {
	if err := s.checkPair(observer, target); err != nil {
		return "", err
	}
	hand, err := s.Engine.HandOf(target)
	if err != nil {
		return "", err
	}
	hint := ObservationFallback(target, len(hand))
	if s.collab != nil {
		strongest := "nothing"
		if len(hand) > 0 {
			strongest = hand[len(hand)-1].String()
		}
		cctx, cancel := s.callCtx(ctx)
		h, err := s.collab.ObservationHint(cctx, s.Persona(target), len(hand), strongest)
		cancel()
		if err != nil || h == "" {
			if err == nil {
				err = fmt.Errorf("%w: empty hint", ai.ErrCollaborator)
			}
			s.warn(target, "observe", err, hint)
		} else {
			hint = ai.TruncateHint(h)
		}
	}
	if err := s.Engine.Observe(observer, target, hint); err != nil {
		return "", err
	}
	return hint, nil
}

// OfferAlliance proposes a pact from one player to another. Acceptance
// depends on the recipient's cooperation and the pair's affinity.
func (s *Session) OfferAlliance(ctx context.Context, from, to string) (bool, string, error) {
	accepted, err := s.Engine.OfferAlliance(from, to, s.Persona(to).Cooperation)
	if err != nil {
		return false, "", err
	}
	return accepted, s.reply(ctx, to, from, AllianceRequest), nil
}

// Accuse charges target with cheating and returns whether the accusation was
// confirmed along with target's answer.
func (s *Session) Accuse(ctx context.Context, accuser, target string) (bool, string, error) {
	confirmed, err := s.Engine.Accuse(accuser, target)
	if err != nil {
		return false, "", err
	}
	note := "Deny it."
	if s.Persona(target).Honesty > 0.5 {
		note = "Answer honestly."
	}
	return confirmed, s.reply(ctx, target, accuser, "You're cheating, aren't you? "+note), nil
}

// Renounce ends the alliance between a and b.
func (s *Session) Renounce(a, b string) (bool, error) {
	return s.Engine.RenounceAlliance(a, b)
}

// reply asks speaker to answer a line from from. Failures yield no reply.
func (s *Session) reply(ctx context.Context, speaker, from, message string) string {
	if s.collab == nil {
		return ""
	}
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	r, err := s.collab.ChatReply(cctx, s.Persona(speaker), from, message, s.Engine.Affinity(speaker, from))
	if err != nil {
		s.warn(speaker, "chat", err, "")
		return ""
	}
	return r
}

// spontaneous lets an automated player act on its relationships after a move.
func (s *Session) spontaneous(ctx context.Context, actor string) {
	cctx, cancel := s.callCtx(ctx)
	action, err := s.collab.DecideAction(cctx, s.Persona(actor), actor, s.Engine.Relationships(actor))
	cancel()
	if err != nil {
		s.warn(actor, "action", err, ai.ActionNone)
		return
	}

	entry := s.log.WithFields(logrus.Fields{
		"game":   s.Engine.ID,
		"player": actor,
		"action": action.Kind,
		"target": action.Target,
	})
	switch action.Kind {
	case ai.ActionChat:
		err = s.Engine.Chat(actor, action.Target, action.Message, "")
	case ai.ActionCooperate:
		var accepted bool
		accepted, err = s.Engine.OfferAlliance(actor, action.Target, s.Persona(action.Target).Cooperation)
		entry = entry.WithField("accepted", accepted)
	case ai.ActionAccuse:
		_, err = s.Engine.Accuse(actor, action.Target)
	default:
		return
	}
	if err != nil {
		entry.WithError(err).Warn("spontaneous action rejected")
		return
	}
	entry.Info(action.Message)
}

func (s *Session) checkPair(a, b string) error {
	for _, p := range []string{a, b} {
		if _, err := s.Engine.HandOf(p); err != nil {
			return err
		}
	}
	if a == b {
		return fmt.Errorf("%w: %q cannot target themselves", game.ErrInvalidTarget, a)
	}
	return nil
}
