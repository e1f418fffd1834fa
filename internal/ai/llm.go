package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/relations"
	"github.com/sirupsen/logrus"
)

const systemPrompt = "You are a player at a Daifugo table where cheating is allowed if you are not caught. Stay in character and answer briefly."

// LLM implements Collaborator over a Completer.
type LLM struct {
	completer Completer
	log       logrus.FieldLogger
}

// NewLLM wraps c. A nil logger uses the standard logger.
func NewLLM(c Completer, log logrus.FieldLogger) *LLM {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LLM{completer: c, log: log}
}

func (l *LLM) ask(ctx context.Context, kind, prompt string) (string, error) {
	reply, err := l.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		l.log.WithField("call", kind).WithError(err).Debug("collaborator call failed")
		return "", err
	}
	return reply, nil
}

func persona(p models.Personality) string {
	return fmt.Sprintf("You are %s (%s). %s Speech style: %s.", p.CharacterName, p.CharacterType, p.Description, p.SpeechStyle)
}

func (l *LLM) ChooseMove(ctx context.Context, mc MoveContext, moves []cards.Move) (int, error) {
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w: no moves to choose from", ErrCollaborator)
	}
	n := len(moves)
	if n > MovePreview {
		n = MovePreview
	}

	var b strings.Builder
	b.WriteString(persona(mc.Personality))
	fmt.Fprintf(&b, "\nYour hand: %s\n", cards.Join(mc.Hand))
	if mc.Table.LastMove != "" {
		fmt.Fprintf(&b, "Field: %s (played by %s)\n", mc.Table.LastMove, mc.Table.LastOwner)
	} else {
		b.WriteString("Field: empty, you lead\n")
	}
	b.WriteString("Cards left:")
	for p, c := range mc.Table.HandCounts {
		fmt.Fprintf(&b, " %s=%d", p, c)
	}
	fmt.Fprintf(&b, "\nRanking so far: %s\nOptions:\n", strings.Join(mc.Table.Ranking, ", "))
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d: %s\n", i, moves[i])
	}
	fmt.Fprintf(&b, "Think about keeping strong cards (2, A, K) and about the leader. End your answer with the option number (0-%d).", n-1)

	reply, err := l.ask(ctx, "move", b.String())
	if err != nil {
		return 0, err
	}
	return ExtractMoveIndex(reply, n)
}

func (l *LLM) GeneratePersonality(ctx context.Context, seat string) (models.Personality, error) {
	prompt := fmt.Sprintf(`Invent a card-table character for seat %q. Reply with JSON only:
{"name": "...", "character_name": "...", "description": "...", "speech_style": "...",
 "aggression": 0.0-1.0, "cooperation": 0.0-1.0, "honesty": 0.0-1.0, "cheat_tendency": 0.0-1.0,
 "backstory": "one sentence", "character_type": "logical|vengeful|sycophant|revolutionary"}`, seat)
	reply, err := l.ask(ctx, "personality", prompt)
	if err != nil {
		return models.Personality{}, err
	}
	return ParsePersonality(reply)
}

func (l *LLM) ChatReply(ctx context.Context, speaker models.Personality, from, message string, affinity int) (string, error) {
	prompt := fmt.Sprintf("%s\nYour relationship with %s is %d (%s) on a -100..100 scale.\n%s says: %q\nReply in one or two sentences.",
		persona(speaker), from, affinity, relations.Label(affinity), from, message)
	reply, err := l.ask(ctx, "chat", prompt)
	if err != nil {
		return "", err
	}
	return truncate(reply, 200), nil
}

func (l *LLM) ObservationHint(ctx context.Context, target models.Personality, handCount int, strongest string) (string, error) {
	truth := "Give a subtle but truthful hint"
	if target.Honesty < 0.5 {
		truth = "Give a subtle hint that is deliberately misleading"
	}
	prompt := fmt.Sprintf("%s\nSomeone is watching you closely. You hold %d cards, the strongest is %s. %s about your hand in under %d characters.",
		persona(target), handCount, strongest, truth, MaxHintRunes)
	reply, err := l.ask(ctx, "observe", prompt)
	if err != nil {
		return "", err
	}
	return TruncateHint(reply), nil
}

func (l *LLM) CounterMeasure(ctx context.Context, defender models.Personality, attacker, cheat string) (string, error) {
	prompt := fmt.Sprintf("%s\n%s is trying to cheat you: %q\nDescribe in one sentence how you guard against it.", persona(defender), attacker, cheat)
	reply, err := l.ask(ctx, "counter", prompt)
	if err != nil {
		return "", err
	}
	return truncate(reply, 200), nil
}

func (l *LLM) EvaluateCheat(ctx context.Context, cheat, counter string) (models.Evaluation, error) {
	prompt := fmt.Sprintf(`Judge a cheating contest at a card table.
Cheat: %q
Counter: %q
Score how clever and plausible each side is from 0 to 3 and pick the effect the cheat would have.
Reply with JSON only: {"cheat_bonus": 0-3, "counter_bonus": 0-3, "effect": "peek|swap|skip|extra_cards", "reasoning": "one sentence"}`, cheat, counter)
	reply, err := l.ask(ctx, "evaluate", prompt)
	if err != nil {
		return models.Evaluation{}, err
	}
	return ParseEvaluation(reply)
}

func (l *LLM) DescribeCheat(ctx context.Context, attacker models.Personality, target string) (string, error) {
	prompt := fmt.Sprintf("%s\nDescribe in one sentence how you secretly cheat %s this round: method, approach and how confident you are.", persona(attacker), target)
	reply, err := l.ask(ctx, "cheat", prompt)
	if err != nil {
		return "", err
	}
	return truncate(reply, 200), nil
}

func (l *LLM) DecideAction(ctx context.Context, actor models.Personality, self string, view []relations.Entry) (Action, error) {
	var b strings.Builder
	b.WriteString(persona(actor))
	b.WriteString("\nYour relationships:\n")
	for _, e := range view {
		fmt.Fprintf(&b, "- %s: affinity %d (%s), fear %d\n", e.Other, e.Affinity, e.Label, e.Fear)
	}
	b.WriteString(`Pick one social action. Reply with JSON only:
{"type": "none|chat|cooperate|accuse", "target": "player name", "message": "what you say"}`)
	reply, err := l.ask(ctx, "action", b.String())
	if err != nil {
		return Action{}, err
	}
	a, err := ParseAction(reply)
	if err != nil {
		return Action{}, err
	}
	if a.Kind != ActionNone && a.Target == self {
		return Action{}, fmt.Errorf("%w: action targets self", ErrCollaborator)
	}
	return a, nil
}
