// Package voices maintains a catalog of narration voice profiles and
// matches them to a book's analyzed traits.
package voices

// VoiceProfile describes one catalog voice in the terms the matcher
// scores against.
type VoiceProfile struct {
	ID          string   `json:"voice_id"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender"`
	AgeRange    string   `json:"age_range"`
	AccentTags  []string `json:"accent_tags"`
	UseCaseTags []string `json:"use_case_tags"`
	SampleRef   string   `json:"sample_ref,omitempty"`
}

// nonNarrationTags mark voices tuned for formats that read badly over long
// audiobook sessions.
var nonNarrationTags = map[string]bool{
	"social media":  true,
	"advertisement": true,
	"entertainment": true,
}

// FilterNarration drops voices whose use case disqualifies them for long
// form narration. Order is preserved.
func FilterNarration(profiles []VoiceProfile) []VoiceProfile {
	out := make([]VoiceProfile, 0, len(profiles))
	for _, p := range profiles {
		excluded := false
		for _, tag := range p.UseCaseTags {
			if nonNarrationTags[tag] {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, p)
		}
	}
	return out
}

// DefaultCatalog is the static fallback used when the remote catalog is
// unreachable. Entries mirror the hosted narration roster.
func DefaultCatalog() []VoiceProfile {
	return []VoiceProfile{
		{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Gender: "female", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "29vD33N1CtxCmqQRPOHJ", Name: "Drew", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "news"}},
		{ID: "2EiwWnXFnvU5JabPnv8n", Name: "Clyde", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "characters"}},
		{ID: "5Q0t7uMcjvnagumLfvZi", Name: "Paul", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "news"}},
		{ID: "9BWtsMINqrJLrRacOk9x", Name: "Aria", Gender: "female", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Gender: "female", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "characters"}},
		{ID: "CYw3kZ02Hs0563khs1Fj", Name: "Dave", Gender: "male", AgeRange: "young adult", AccentTags: []string{"british"}, UseCaseTags: []string{"characters", "entertainment"}},
		{ID: "D38z5RcWu1voky8WS1ja", Name: "Fin", Gender: "male", AgeRange: "old", AccentTags: []string{"irish"}, UseCaseTags: []string{"narration", "characters"}},
		{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Sarah", Gender: "female", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Gender: "male", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "GBv7mTt0atIp3Br8iCZE", Name: "Thomas", Gender: "male", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"meditation", "narration"}},
		{ID: "JBFqnCBsd6RMkjVDRZzb", Name: "George", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"british"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "LcfcDJNUP1GQjkzn1xUU", Name: "Emily", Gender: "female", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"meditation", "narration"}},
		{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "Elli", Gender: "female", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "social media"}},
		{ID: "N2lVS1w4EtoT3dr4eOWO", Name: "Callum", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"transatlantic"}, UseCaseTags: []string{"characters", "narration"}},
		{ID: "ODq5zmih8GrVes37Dizd", Name: "Patrick", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"characters", "advertisement"}},
		{ID: "SOYHLrjzK2X1ezoPC6cr", Name: "Harry", Gender: "male", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"characters", "narration"}},
		{ID: "TX3LPaxmHKxFdv7VOQHJ", Name: "Liam", Gender: "male", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "social media"}},
		{ID: "ThT5KcBeYPX3keUQqHPh", Name: "Dorothy", Gender: "female", AgeRange: "young adult", AccentTags: []string{"british"}, UseCaseTags: []string{"narration", "children"}},
		{ID: "XB0fDUnXU5powFXDhCwa", Name: "Charlotte", Gender: "female", AgeRange: "young adult", AccentTags: []string{"swedish"}, UseCaseTags: []string{"characters", "narration"}},
		{ID: "Xb7hH8MSUJpSbSDYk0k2", Name: "Alice", Gender: "female", AgeRange: "middle aged", AccentTags: []string{"british"}, UseCaseTags: []string{"narration", "news"}},
		{ID: "XrExE9yKIg1WjnnlVkGX", Name: "Matilda", Gender: "female", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "bVMeCyTHy58xNoL34h3p", Name: "Jeremy", Gender: "male", AgeRange: "young adult", AccentTags: []string{"irish"}, UseCaseTags: []string{"narration", "excited"}},
		{ID: "onwK4e9ZLuTAKqWW03F9", Name: "Daniel", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"british"}, UseCaseTags: []string{"narration", "news"}},
		{ID: "pFZP5JQG7iQjIQuC4Bku", Name: "Lily", Gender: "female", AgeRange: "middle aged", AccentTags: []string{"british"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Gender: "male", AgeRange: "middle aged", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "piTKgcLEGmPE4e6mEKli", Name: "Nicole", Gender: "female", AgeRange: "young adult", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "audiobook"}},
		{ID: "pqHfZKP75CvOlQylNhV4", Name: "Bill", Gender: "male", AgeRange: "old", AccentTags: []string{"american"}, UseCaseTags: []string{"narration", "documentary"}},
	}
}
