package config

import (
	"testing"
	"time"
)

func TestPrefixChaining(t *testing.T) {
	t.Setenv("A_B_KEY", "v")

	c := New().Prefix("A_").Prefix("B_")
	if got := c.MayString("KEY", ""); got != "v" {
		t.Fatalf("chained prefix lookup = %q, want v", got)
	}
	if got := New().MayString("A_B_KEY", ""); got != "v" {
		t.Fatalf("root lookup = %q, want v", got)
	}
}

func TestMayReaders(t *testing.T) {
	t.Setenv("T_STR", "  padded  ")
	t.Setenv("T_INT", "42")
	t.Setenv("T_BOOL", "true")
	t.Setenv("T_DUR", "1500ms")
	t.Setenv("T_BAD_INT", "nope")
	t.Setenv("T_BAD_DUR", "soon")

	c := New().Prefix("T_")

	if got := c.MayString("STR", "d"); got != "padded" {
		t.Fatalf("MayString trim = %q", got)
	}
	if got := c.MayString("MISSING", "d"); got != "d" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("INT", 1); got != 42 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD_INT", 7); got != 7 {
		t.Fatalf("MayInt invalid should fall back, got %d", got)
	}
	if got := c.MayBool("BOOL", false); !got {
		t.Fatalf("MayBool = %v", got)
	}
	if got := c.MayDuration("DUR", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD_DUR", 3*time.Second); got != 3*time.Second {
		t.Fatalf("MayDuration invalid should fall back, got %v", got)
	}
	if got := c.MayFloat64("MISSING", 2.5); got != 2.5 {
		t.Fatalf("MayFloat64 default = %v", got)
	}
}

func TestMustReaders(t *testing.T) {
	t.Setenv("M_URL", "https://gateway.example/api")
	t.Setenv("M_INT", "9")

	c := New().Prefix("M_")
	if got := c.MustString("URL"); got == "" {
		t.Fatal("MustString returned empty for a present key")
	}
	if got := c.MustInt("INT"); got != 9 {
		t.Fatalf("MustInt = %d", got)
	}
	u := c.MustURL("URL")
	if u.Host != "gateway.example" {
		t.Fatalf("MustURL host = %q", u.Host)
	}
}
