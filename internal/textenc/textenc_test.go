package textenc

import (
	"errors"
	"testing"
)

func TestDecode_UTF8(t *testing.T) {
	text, enc, err := Decode([]byte("0 HEAD\n1 NAME Zoë /Ünal/\n"), FallbackMacintosh)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if enc != UTF8 || text != "0 HEAD\n1 NAME Zoë /Ünal/\n" {
		t.Errorf("got %q (%s)", text, enc)
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	text, _, err := Decode([]byte("\xEF\xBB\xBF0 HEAD\n"), FallbackNone)
	if err != nil {
		t.Fatal(err)
	}
	if text != "0 HEAD\n" {
		t.Errorf("text = %q", text)
	}
}

func TestDecode_MacintoshRetry(t *testing.T) {
	text, enc, err := Decode([]byte("0 HEAD\n1 NAME Ren\x8e /Dupont/\n"), FallbackMacintosh)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if enc != Macintosh {
		t.Errorf("encoding = %s, want %s", enc, Macintosh)
	}
	if text != "0 HEAD\n1 NAME René /Dupont/\n" {
		t.Errorf("text = %q", text)
	}
}

func TestDecode_NoFallback(t *testing.T) {
	_, _, err := Decode([]byte{0x30, 0x20, 0x8e}, FallbackNone)
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("err = %v, want ErrUndecodable", err)
	}
}
