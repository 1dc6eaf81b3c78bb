package bundle

import "testing"

func TestParseShareURL(t *testing.T) {
	p, err := ParseShareURL("https://review.example.com/view?m=a1b2c3&bg=black")
	if err != nil {
		t.Fatalf("ParseShareURL() error = %v", err)
	}
	if p.Token != "a1b2c3" {
		t.Errorf("Token = %q, want a1b2c3", p.Token)
	}
	if p.Background != BackgroundBlack {
		t.Errorf("Background = %v, want black", p.Background)
	}
}

func TestParseShareURLDefaults(t *testing.T) {
	p, err := ParseShareURL("https://review.example.com/view?m=tok")
	if err != nil {
		t.Fatalf("ParseShareURL() error = %v", err)
	}
	if p.Background != BackgroundGray {
		t.Errorf("Background = %v, want gray default", p.Background)
	}
}

func TestParseShareURLMissingToken(t *testing.T) {
	if _, err := ParseShareURL("https://review.example.com/view?bg=white"); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestParseBackground(t *testing.T) {
	cases := map[string]Background{
		"white":   BackgroundWhite,
		"WHITE":   BackgroundWhite,
		"black":   BackgroundBlack,
		"gray":    BackgroundGray,
		"":        BackgroundGray,
		"magenta": BackgroundGray,
	}
	for in, want := range cases {
		if got := ParseBackground(in); got != want {
			t.Errorf("ParseBackground(%q) = %v, want %v", in, got, want)
		}
	}
}
