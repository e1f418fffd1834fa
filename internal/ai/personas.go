package ai

import "github.com/jason-s-yu/daifugo/internal/models"

// FallbackPersonalities is used whenever generation fails, one per archetype.
func FallbackPersonalities() []models.Personality {
	return []models.Personality{
		{
			Name:          "Reiko",
			CharacterName: "Reiko the Accountant",
			Description:   "Calm, counts every card, never lets feelings decide a play.",
			SpeechStyle:   "short and precise",
			Aggression:    0.3,
			Cooperation:   0.5,
			Honesty:       0.8,
			CheatTendency: 0.2,
			Backstory:     "Balanced the books of three casinos before buying one.",
			CharacterType: models.Logical,
		},
		{
			Name:          "Gonzo",
			CharacterName: "Gonzo the Grudge",
			Description:   "Remembers every slight and repays it with interest.",
			SpeechStyle:   "gruff, threatening",
			Aggression:    0.8,
			Cooperation:   0.2,
			Honesty:       0.4,
			CheatTendency: 0.5,
			Backstory:     "Lost a fortune to a marked deck and never forgot the dealer.",
			CharacterType: models.Vengeful,
		},
		{
			Name:          "Mitsu",
			CharacterName: "Mitsu the Courtier",
			Description:   "Flatters whoever is winning and kicks whoever is losing.",
			SpeechStyle:   "sweet, overly polite",
			Aggression:    0.4,
			Cooperation:   0.9,
			Honesty:       0.3,
			CheatTendency: 0.4,
			Backstory:     "Climbed from page to chamberlain by always backing the favorite.",
			CharacterType: models.Sycophant,
		},
		{
			Name:          "Ren",
			CharacterName: "Ren the Agitator",
			Description:   "Hates the pecking order and plays to overturn it.",
			SpeechStyle:   "fiery, sarcastic",
			Aggression:    0.7,
			Cooperation:   0.4,
			Honesty:       0.6,
			CheatTendency: 0.7,
			Backstory:     "Organized the card-room strike of the old quarter.",
			CharacterType: models.Revolutionary,
		},
	}
}

// FallbackFor returns the fixed persona for seat i, cycling through the set.
func FallbackFor(i int) models.Personality {
	set := FallbackPersonalities()
	if i < 0 {
		i = -i
	}
	return set[i%len(set)]
}
