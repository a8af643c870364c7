package domain_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

func TestValidateTurn(t *testing.T) {
	cases := []struct {
		name string
		turn *domain.ChatTurn
		ok   bool
	}{
		{"user", &domain.ChatTurn{SessionID: "s1", Role: domain.RoleUser}, true},
		{"assistant", &domain.ChatTurn{SessionID: "s1", Role: domain.RoleAssistant}, true},
		{"nil", nil, false},
		{"no session", &domain.ChatTurn{Role: domain.RoleUser}, false},
		{"system role", &domain.ChatTurn{SessionID: "s1", Role: "system"}, false},
		{"agent role", &domain.ChatTurn{SessionID: "s1", Role: "agent"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateTurn(tc.turn)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, domain.ErrInvalidTurn) {
				t.Fatalf("expected ErrInvalidTurn, got %v", err)
			}
		})
	}
}

func TestProductIDsJoinAndParse(t *testing.T) {
	ids := []domain.ProductID{42, 7, 1}

	joined := domain.JoinProductIDs(ids)
	if joined != "42,7,1" {
		t.Fatalf("unexpected join %q", joined)
	}

	parsed, err := domain.ParseProductIDs(joined)
	if err != nil {
		t.Fatalf("ParseProductIDs failed: %v", err)
	}
	if !slices.Equal(parsed, ids) {
		t.Fatalf("expected %v, got %v", ids, parsed)
	}

	if got, _ := domain.ParseProductIDs(""); got != nil {
		t.Fatalf("expected nil for empty string, got %v", got)
	}
	if _, err := domain.ParseProductIDs("1,x"); err == nil {
		t.Fatalf("expected error for malformed list")
	}
}
