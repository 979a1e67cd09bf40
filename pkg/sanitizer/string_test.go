package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Elm Street Garage  ",
			want:  "Elm Street Garage",
		},
		{
			name:  "multiple spaces between words",
			input: "Elm    Street",
			want:  "Elm Street",
		},
		{
			name:  "tabs and newlines",
			input: "Elm\t\nStreet",
			want:  "Elm Street",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Rue de l'Église 12 ",
			want:  "Rue de l'Église 12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Alice@Example.COM ", "alice@example.com"},
		{"bob@example.com", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeCarCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" suv ", "SUV"},
		{"ev  compact", "EV COMPACT"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCarCategory(tt.input); got != tt.want {
			t.Errorf("NormalizeCarCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
