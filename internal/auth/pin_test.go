package auth

import (
	"strings"
	"testing"
)

func TestHashPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN() error = %v", err)
	}
	if hash == "" {
		t.Fatal("HashPIN() returned empty hash")
	}
	if hash == "1234" {
		t.Error("HashPIN() must not return the PIN itself")
	}
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Errorf("HashPIN() = %q, want bcrypt hash", hash)
	}
}

func TestCheckPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN() error = %v", err)
	}

	tests := []struct {
		name string
		pin  string
		hash string
		want bool
	}{
		{name: "correct pin", pin: "1234", hash: hash, want: true},
		{name: "wrong pin", pin: "4321", hash: hash, want: false},
		{name: "empty pin", pin: "", hash: hash, want: false},
		{name: "invalid hash", pin: "1234", hash: "not-a-hash", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPIN(tt.pin, tt.hash); got != tt.want {
				t.Errorf("CheckPIN() = %v, want %v", got, tt.want)
			}
		})
	}
}
