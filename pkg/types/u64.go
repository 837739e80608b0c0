package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// U64 mirrors an unsigned 64-bit chain integer. It serializes to JSON as a
// decimal string so values above 2^53 survive JavaScript clients, and stores
// as BIGINT.
type U64 uint64

// MarshalJSON renders the value as a quoted decimal string.
func (u U64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (u *U64) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*u = 0
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("parse u64 %q: %w", raw, err)
	}
	*u = U64(parsed)
	return nil
}

// Value stores the integer as a signed BIGINT.
func (u U64) Value() (driver.Value, error) {
	if uint64(u) > math.MaxInt64 {
		return nil, fmt.Errorf("u64 value %d overflows bigint", uint64(u))
	}
	return int64(u), nil
}

// Scan reads the integer back from the database.
func (u *U64) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*u = 0
	case int64:
		if v < 0 {
			return fmt.Errorf("negative value %d for u64 column", v)
		}
		*u = U64(v)
	case []byte:
		parsed, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan u64 %q: %w", v, err)
		}
		*u = U64(parsed)
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan u64 %q: %w", v, err)
		}
		*u = U64(parsed)
	default:
		return fmt.Errorf("unsupported u64 source type %T", value)
	}
	return nil
}

func (u U64) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

// Amount is the request-side counterpart of U64. It decodes from either a
// JSON string or number into a signed integer so that negative input reaches
// the validation layer (tagged min=0) instead of failing mid-decode, keeping
// field errors aggregatable.
type Amount int64

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*a = 0
		return nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", raw, err)
	}
	*a = Amount(parsed)
	return nil
}

// MarshalJSON renders the value as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(a), 10))
}

// U64 converts a validated non-negative amount to its storage type.
func (a Amount) U64() U64 {
	if a < 0 {
		return 0
	}
	return U64(a)
}
