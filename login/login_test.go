package login

import (
	"errors"
	"testing"

	"github.com/blang/semver"
)

func TestValidateRefusedLogin(t *testing.T) {
	tok := Token{Login: "false", Message: "Could not authenticate"}
	err := tok.Validate()
	var refused *ErrLoginRefused
	if !errors.As(err, &refused) {
		t.Fatalf("expected *ErrLoginRefused, got %v", err)
	}
	if refused.Message != "Could not authenticate" {
		t.Errorf("message = %q", refused.Message)
	}
}

func TestValidateAcceptsCurrentProtocol(t *testing.T) {
	tok := Token{Login: "true", ProtocolVersion: semver.MustParse("1.2.0")}
	if err := tok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsStaleProtocol(t *testing.T) {
	tok := Token{Login: "true", ProtocolVersion: semver.MustParse("0.9.0")}
	if err := tok.Validate(); err == nil {
		t.Errorf("expected error for stale protocol version")
	}
}

func TestParseStartLocationNamed(t *testing.T) {
	for _, name := range []string{"home", "last"} {
		loc, err := ParseStartLocation(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if loc.Named != name {
			t.Errorf("Named = %q, want %q", loc.Named, name)
		}
	}
}

func TestParseStartLocationURI(t *testing.T) {
	loc, err := ParseStartLocation("uri:Ahern&128.5&64&25")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if loc.Region != "Ahern" || loc.X != 128.5 || loc.Y != 64 || loc.Z != 25 {
		t.Errorf("got %+v", loc)
	}
}

func TestParseStartLocationRejectsSlashForm(t *testing.T) {
	if _, err := ParseStartLocation("uri:Ahern/128/64/25"); err == nil {
		t.Errorf("expected slash-delimited form to be rejected")
	}
}

func TestParseStartLocationRejectsGarbage(t *testing.T) {
	if _, err := ParseStartLocation("not-a-start-location"); err == nil {
		t.Errorf("expected error")
	}
}
