package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUID wraps google/uuid so the rest of the code never touches the raw type.
type UUID struct {
	value uuid.UUID
}

func GenerateUUID() UUID {
	return UUID{
		value: uuid.New(),
	}
}

func NewUUID(val string) (UUID, error) {
	parsed, err := uuid.Parse(val)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid uuid '%s': %w", val, err)
	}
	return UUID{value: parsed}, nil
}

func (u UUID) String() string {
	return u.value.String()
}

func (u UUID) IsZero() bool {
	return u.value == uuid.Nil
}

func (u UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.value.String())
}

func (u *UUID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid uuid '%s': %w", raw, err)
	}
	u.value = parsed
	return nil
}
