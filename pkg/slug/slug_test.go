package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "My First Post", "my-first-post"},
		{"ampersand", "Hello & World!!", "hello-and-world"},
		{"extra whitespace", "  multiple   spaces ", "multiple-spaces"},
		{"punctuation stripped", "What's up, Go?", "whats-up-go"},
		{"underscores kept", "snake_case title", "snake_case-title"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"leading and trailing hyphens", "--Edgy Title--", "edgy-title"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeIsDeterministic(t *testing.T) {
	title := "Some & Title  with   Flair!"
	first := Make(title)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Make(title))
	}
}
