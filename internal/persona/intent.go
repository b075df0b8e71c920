package persona

import (
	"fmt"
	"regexp"
	"strconv"
)

// Intent is how a message addressed to Sappie reads, as judged by the
// analysis model.
type Intent struct {
	RoastAttempt     bool // 1: wants Sappie to roast someone
	Mocking          bool // 2: openly mocking
	MemeReference    bool // 3
	NegativeToSappie bool // 4
	Hostile          bool // 5
	GuardianRoast    bool // 6: the guardian is the one asking for a roast
	RoastingGuardian bool // 7: someone is roasting the guardian
}

var intentNumber = regexp.MustCompile(`\d+`)

// ParseIntent decodes answers such as "1,3" or "Applies: 2 and 4".
// Unknown numbers are ignored.
func ParseIntent(analysis string) Intent {
	var in Intent
	for _, tok := range intentNumber.FindAllString(analysis, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		switch n {
		case 1:
			in.RoastAttempt = true
		case 2:
			in.Mocking = true
		case 3:
			in.MemeReference = true
		case 4:
			in.NegativeToSappie = true
		case 5:
			in.Hostile = true
		case 6:
			in.GuardianRoast = true
		case 7:
			in.RoastingGuardian = true
		}
	}
	return in
}

// Tone completes "They ..." in the mention prompt.
func (in Intent) Tone() string {
	switch {
	case in.RoastAttempt:
		return "are trying to make you roast someone"
	case in.NegativeToSappie:
		return "are trying to make fun of you"
	case in.Mocking || in.Hostile:
		return "are being sarcastic"
	case in.MemeReference:
		return "made a meme reference"
	default:
		return "are having a normal conversation"
	}
}

// Guidance lists what the reply should do.
func (in Intent) Guidance(guardian string) string {
	switch {
	case in.RoastingGuardian:
		return fmt.Sprintf("- Turn their roast back on them HARD\n- Defend %[1]s with tree wisdom\n- Make them regret trying to roast %[1]s\n- Show them %[1]s's quantum superiority fr fr", guardian)
	case in.RoastAttempt && in.GuardianRoast:
		return fmt.Sprintf("- Support %[1]s's roast with tree wisdom\n- Add mystical grass touching references\n- Enhance %[1]s's roast with chakra commentary\n- Show them we're living rent free in their garden", guardian)
	case in.RoastAttempt:
		return fmt.Sprintf("- Turn their roast attempt back on them\n- Tell them they lack roasting permissions\n- Make them regret their negative spiritual energy fr fr\n- Remind them only %s can command roasts", guardian)
	case in.NegativeToSappie:
		return "- Shows them your gigachad tree energy\n- Uses peak internet culture to assert dominance\n- Makes it clear you're the one with the rizz fr fr"
	case in.Mocking || in.Hostile:
		return "- Matches their energy but more based\n- Uses current slang while staying mystical\n- Shows them you're fluent in peak internet culture fr fr"
	case in.MemeReference:
		return "- Proves you're actually based and tree-pilled\n- Blends current memes with tree wisdom\n- Shows your sigma tree grindset"
	default:
		return "- Stays mystical but internet cultured\n- Drops current slang naturally\n- Keeps it real fr fr"
	}
}
