package deck

// tutorialCodes is the scripted card order for the thirteen tutorial
// scenarios, one row per scenario. Cards are drawn in this order by the round
// engine (seats first, dealer last, per pass) so every scenario reproduces the
// same hands.
var tutorialCodes = [][]string{
	{"7C", "KS", "5D", "2H", "TS"},
	{"8S", "TH", "4H", "6C", "6D"},
	{"AS", "TD", "AC", "7D", "8H", "7S"},
	{"TH", "6C", "TS", "6D", "TD"},
	{"6H", "8C", "5S", "4C", "KH", "TS"},
	{"AH", "7S", "7D", "9C", "3D", "5H"},
	{"KH", "TH", "9D", "AC"},
	{"AH", "9D", "6S", "9H", "2C"},
	{"8S", "6H", "8H", "9D", "3C", "2D", "TS", "8C", "4C"},
	{"9D", "QH", "9C", "7S"},
	{"AH", "JS", "7S", "6D", "2D", "QC"},
	{"KH", "TC", "6C", "7D", "5D"},
	{"TS", "7D", "7H", "TC"},
}

var tutorialScript = flattenScript(tutorialCodes)

func flattenScript(rows [][]string) []Card {
	var cards []Card
	for _, row := range rows {
		cards = append(cards, MustParseCards(row...)...)
	}
	return cards
}

// TutorialScript returns a copy of the scripted tutorial order
func TutorialScript() []Card {
	out := make([]Card, len(tutorialScript))
	copy(out, tutorialScript)
	return out
}
