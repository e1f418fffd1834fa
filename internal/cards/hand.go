package cards

// Contains reports whether every card in want is present in hand. Hands hold
// no duplicates, so a set check is sufficient.
func Contains(hand []Card, want []Card) bool {
	have := make(map[Card]struct{}, len(hand))
	for _, c := range hand {
		have[c] = struct{}{}
	}
	for _, c := range want {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}

// RemoveCards returns hand without the cards in toRemove. The input slice is
// not modified.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		out := make([]Card, len(hand))
		copy(out, hand)
		return out
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}
	return updated
}

// GroupByRank buckets a hand by rank value. Each bucket is suit-ordered.
func GroupByRank(hand []Card) map[int][]Card {
	sorted := make([]Card, len(hand))
	copy(sorted, hand)
	SortByRank(sorted)

	groups := make(map[int][]Card)
	for _, c := range sorted {
		v := c.RankValue()
		groups[v] = append(groups[v], c)
	}
	return groups
}
