package exercises

import "testing"

func sampleFeed() []Exercise {
	return []Exercise{
		{Name: "Roll Up", MachineType: strPtr("mat"), Level: strPtr("beginner")},
		{Name: "Swan", MachineType: strPtr("reformer"), Level: strPtr("advanced")},
	}
}

func filteredNames(list []Exercise) []string {
	names := make([]string, 0, len(list))
	for _, exercise := range list {
		names = append(names, exercise.Name)
	}
	return names
}

func TestFilterConjunction(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "category and level",
			filter: Filter{MachineType: "mat", Levels: []string{"beginner"}},
			want:   []string{"Roll Up"},
		},
		{
			name:   "text query",
			filter: Filter{Query: "swan"},
			want:   []string{"Swan"},
		},
		{
			name:   "level multi-select without category",
			filter: Filter{Levels: []string{"beginner", "advanced"}},
			want:   []string{"Roll Up", "Swan"},
		},
		{
			name:   "empty filter matches everything",
			filter: Filter{},
			want:   []string{"Roll Up", "Swan"},
		},
		{
			name:   "category is case-insensitive",
			filter: Filter{MachineType: "MAT"},
			want:   []string{"Roll Up"},
		},
		{
			name:   "conjunction can be empty",
			filter: Filter{MachineType: "mat", Levels: []string{"advanced"}},
			want:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filteredNames(tc.filter.Apply(sampleFeed()))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestFilterQueryMatchesStrengthenAndStretch(t *testing.T) {
	feed := []Exercise{
		{Name: "Hundred", Strengthen: strPtr("Abdominals and breath")},
		{Name: "Elephant", Stretch: strPtr("Hamstrings")},
		{Name: "Teaser"},
	}

	got := filteredNames(Filter{Query: "hamstring"}.Apply(feed))
	if len(got) != 1 || got[0] != "Elephant" {
		t.Fatalf("expected stretch text to match, got %v", got)
	}

	got = filteredNames(Filter{Query: "ABDOMINALS"}.Apply(feed))
	if len(got) != 1 || got[0] != "Hundred" {
		t.Fatalf("expected strengthen text to match, got %v", got)
	}
}

func TestFilterLevelIgnoresRecordsWithoutLevel(t *testing.T) {
	feed := []Exercise{
		{Name: "Leveled", Level: strPtr("Beginner")},
		{Name: "Unleveled"},
	}

	got := filteredNames(Filter{Levels: []string{"beginner"}}.Apply(feed))
	if len(got) != 1 || got[0] != "Leveled" {
		t.Fatalf("expected only leveled record, got %v", got)
	}
}
