package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/tidwall/gjson"
)

var digits = regexp.MustCompile(`\d+`)

// PassKeywords map a free-text reply to the pass option.
var PassKeywords = []string{"pass", "パス", "出さない"}

// ExtractMoveIndex reads a choice out of free text. The last integer wins if
// it is in [0, n); otherwise a pass keyword selects index 0.
func ExtractMoveIndex(reply string, n int) (int, error) {
	if nums := digits.FindAllString(reply, -1); len(nums) > 0 {
		if idx, err := strconv.Atoi(nums[len(nums)-1]); err == nil && idx >= 0 && idx < n {
			return idx, nil
		}
	}
	lower := strings.ToLower(reply)
	for _, kw := range PassKeywords {
		if strings.Contains(lower, kw) {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: no move index in %q", ErrCollaborator, truncate(reply, 40))
}

// extractJSON returns the outermost {...} span of s, tolerating prose or code
// fences around it.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	obj := s[start : end+1]
	return obj, gjson.Valid(obj)
}

// ParseEvaluation reads {cheat_bonus, counter_bonus, effect, reasoning}.
// Missing bonuses take the neutral value; an unknown effect is an error.
func ParseEvaluation(reply string) (models.Evaluation, error) {
	obj, ok := extractJSON(reply)
	if !ok {
		return models.Evaluation{}, fmt.Errorf("%w: evaluation is not JSON", ErrCollaborator)
	}
	out := models.NeutralEvaluation()
	if v := gjson.Get(obj, "cheat_bonus"); v.Exists() {
		out.AttackerBonus = int(v.Int())
	}
	if v := gjson.Get(obj, "counter_bonus"); v.Exists() {
		out.DefenderBonus = int(v.Int())
	}
	effect := gjson.Get(obj, "effect")
	if !effect.Exists() {
		effect = gjson.Get(obj, "effect_type")
	}
	out.Effect = models.EffectKind(strings.ToLower(strings.TrimSpace(effect.String())))
	if !out.Effect.Valid() {
		return models.Evaluation{}, fmt.Errorf("%w: unknown effect %q", ErrCollaborator, effect.String())
	}
	out.Reasoning = truncate(gjson.Get(obj, "reasoning").String(), 200)
	return out, nil
}

// ParsePersonality reads a generated persona. Name is required; tendencies are
// clamped to [0,1].
func ParsePersonality(reply string) (models.Personality, error) {
	obj, ok := extractJSON(reply)
	if !ok {
		return models.Personality{}, fmt.Errorf("%w: personality is not JSON", ErrCollaborator)
	}
	get := func(keys ...string) gjson.Result {
		for _, k := range keys {
			if v := gjson.Get(obj, k); v.Exists() {
				return v
			}
		}
		return gjson.Result{}
	}
	p := models.Personality{
		Name:          get("name").String(),
		CharacterName: get("character_name", "name").String(),
		Description:   get("description").String(),
		SpeechStyle:   get("speech_style").String(),
		Aggression:    get("aggression", "aggression_level").Float(),
		Cooperation:   get("cooperation", "cooperation_tendency").Float(),
		Honesty:       get("honesty").Float(),
		CheatTendency: get("cheat_tendency").Float(),
		Backstory:     get("backstory", "bio").String(),
		CharacterType: models.CharacterType(strings.ToLower(get("character_type").String())),
	}
	if strings.TrimSpace(p.Name) == "" {
		return models.Personality{}, fmt.Errorf("%w: personality has no name", ErrCollaborator)
	}
	p.Clamp()
	return p, nil
}

// ParseAction reads {type, target, message}. A "none" type is valid.
func ParseAction(reply string) (Action, error) {
	obj, ok := extractJSON(reply)
	if !ok {
		return Action{}, fmt.Errorf("%w: action is not JSON", ErrCollaborator)
	}
	a := Action{
		Kind:    ActionKind(strings.ToLower(gjson.Get(obj, "type").String())),
		Target:  gjson.Get(obj, "target").String(),
		Message: truncate(gjson.Get(obj, "message").String(), 200),
	}
	switch a.Kind {
	case ActionNone:
		return a, nil
	case ActionChat, ActionCooperate, ActionAccuse:
		if a.Target == "" {
			return Action{}, fmt.Errorf("%w: action without target", ErrCollaborator)
		}
		return a, nil
	}
	return Action{}, fmt.Errorf("%w: unknown action %q", ErrCollaborator, a.Kind)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TruncateHint bounds an observation hint to MaxHintRunes.
func TruncateHint(s string) string { return truncate(s, MaxHintRunes) }
