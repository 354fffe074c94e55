package polls

import (
	"reflect"
	"testing"
)

func TestProtectedTexts(t *testing.T) {
	tests := []struct {
		name    string
		tallies []OptionTally
		want    []string
	}{
		{
			name: "top two of three protected",
			tallies: []OptionTally{
				{Text: "Pizza", Votes: 5},
				{Text: "Sushi", Votes: 3},
				{Text: "Tacos", Votes: 0},
			},
			want: []string{"Pizza", "Sushi"},
		},
		{
			name: "protection follows votes not position",
			tallies: []OptionTally{
				{Text: "Tacos", Votes: 0},
				{Text: "Sushi", Votes: 3},
				{Text: "Pizza", Votes: 5},
			},
			want: []string{"Pizza", "Sushi"},
		},
		{
			name:    "single option with votes protected",
			tallies: []OptionTally{{Text: "Pizza", Votes: 1}},
			want:    []string{"Pizza"},
		},
		{
			name:    "single option without votes unprotected",
			tallies: []OptionTally{{Text: "Pizza", Votes: 0}},
			want:    nil,
		},
		{
			name:    "no options",
			tallies: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProtectedTexts(tt.tallies)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ProtectedTexts() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestEditConflicts(t *testing.T) {
	current := []OptionTally{
		{OptionID: "1", Text: "Pizza", Votes: 5},
		{OptionID: "2", Text: "Sushi", Votes: 3},
		{OptionID: "3", Text: "Tacos", Votes: 0},
	}

	tests := []struct {
		name     string
		proposed []string
		want     []string
	}{
		{
			name:     "changing a protected option conflicts",
			proposed: []string{"Burgers", "Sushi", "Tacos"},
			want:     []string{"Pizza"},
		},
		{
			name:     "changing both protected options reports both",
			proposed: []string{"Burgers", "Ramen", "Tacos"},
			want:     []string{"Pizza", "Sushi"},
		},
		{
			name:     "changing the unprotected option is fine",
			proposed: []string{"Pizza", "Sushi", "Burritos"},
			want:     nil,
		},
		{
			name:     "no-op edit never conflicts",
			proposed: []string{"Pizza", "Sushi", "Tacos"},
			want:     nil,
		},
		{
			name:     "surplus proposed texts are ignored",
			proposed: []string{"Pizza", "Sushi", "Tacos", "Wings"},
			want:     nil,
		},
		{
			name:     "short proposed list only checks covered positions",
			proposed: []string{"Pizza"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditConflicts(current, tt.proposed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EditConflicts() = %v; want %v", got, tt.want)
			}
		})
	}
}
