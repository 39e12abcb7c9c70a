package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{
			name:    "idea keyword",
			message: "Can you validate my project idea?",
			want:    IdeaValidation,
		},
		{
			name:    "idea keyword uppercase",
			message: "I HAVE AN IDEA FOR THE HACKATHON",
			want:    IdeaValidation,
		},
		{
			name:    "idea embedded in larger word",
			message: "that sounds ideal to me",
			want:    IdeaValidation,
		},
		{
			name:    "progress keyword",
			message: "what is our current development status",
			want:    Progress,
		},
		{
			name:    "github keyword",
			message: "show me the latest GitHub activity",
			want:    Progress,
		},
		{
			name:    "documentation keyword",
			message: "how to set up hybrid search",
			want:    Documentation,
		},
		{
			name:    "elastic keyword",
			message: "does Elastic support kNN queries?",
			want:    Documentation,
		},
		{
			name:    "no keyword",
			message: "hello there",
			want:    General,
		},
		{
			name:    "empty input",
			message: "",
			want:    General,
		},
		{
			name:    "idea wins over progress",
			message: "is my idea making progress",
			want:    IdeaValidation,
		},
		{
			name:    "progress wins over documentation",
			message: "commit the documentation changes",
			want:    Progress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.message); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"idea_validation", "progress", "documentation", "general"} {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}
	if Valid("inspiration") {
		t.Error(`Valid("inspiration") = true, want false`)
	}
	if Valid("") {
		t.Error(`Valid("") = true, want false`)
	}
}
