package title

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"connector without case transition", "OnceUponaTime", "Once Upon a Time"},
		{"leading connector word kept whole", "IntoAdulthood", "Into Adulthood"},
		{"simple case transitions", "TheBuriedSecret", "The Buried Secret"},
		{"compound connector", "JourneyoftheKing", "Journey of the King"},
		{"word ending in connector", "WithinTheWalls", "Within The Walls"},
		{"proof is not proo f", "ProofOfLife", "Proof Of Life"},
		{"island is not isl and", "IslandOfDreams", "Island Of Dreams"},
		{"already spaced", "A Quiet Place", "A Quiet Place"},
		{"empty", "", ""},
		{"single word", "Epilogue", "Epilogue"},
		{"caps run", "THEEnd", "THE End"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"OnceUponaTime", "TheBuriedSecret", "Chapter 12", "Anna Karenina"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
