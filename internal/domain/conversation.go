package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTurn is returned by stores when a turn breaks the ChatTurn contract.
var ErrInvalidTurn = errors.New("invalid chat turn")

// ChatTurn represents one persisted message of a session (user or assistant).
type ChatTurn struct {
	ID        TurnID // assigned by the store
	SessionID SessionID
	Role      Role
	Content   string
	CreatedAt Timestamp

	// Only set on assistant turns that produced recommendations.
	RecommendedProductIDs []ProductID
}

// ValidateTurn checks the invariants every store enforces before writing.
func ValidateTurn(t *ChatTurn) error {
	if t == nil {
		return fmt.Errorf("%w: nil turn", ErrInvalidTurn)
	}
	if t.SessionID == "" {
		return fmt.Errorf("%w: missing session id", ErrInvalidTurn)
	}
	if !t.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidTurn, t.Role)
	}
	return nil
}

// JoinProductIDs renders ids as the comma-joined form stores persist.
func JoinProductIDs(ids []ProductID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, ",")
}

// ParseProductIDs is the inverse of JoinProductIDs. An empty string yields nil.
func ParseProductIDs(s string) ([]ProductID, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]ProductID, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad product id %q: %w", p, err)
		}
		ids = append(ids, ProductID(n))
	}
	return ids, nil
}
