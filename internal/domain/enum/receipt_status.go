package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReceiptStatus represents the lifecycle state of a receipt
type ReceiptStatus int

const (
	ReceiptStatusDraft     ReceiptStatus = 0
	ReceiptStatusGenerated ReceiptStatus = 1
	ReceiptStatusPaid      ReceiptStatus = 2
	ReceiptStatusVoid      ReceiptStatus = 3
)

func (s ReceiptStatus) String() string {
	return [...]string{"DRAFT", "GENERATED", "PAID", "VOID"}[s]
}

// IsEditable reports whether field edits and fee recalculation are allowed.
// Only drafts are editable; everything past GENERATED is frozen.
func (s ReceiptStatus) IsEditable() bool {
	return s == ReceiptStatusDraft
}

// CanTransitionTo reports whether the transition to the target status is legal:
// DRAFT -> GENERATED -> PAID, with VOID reachable from GENERATED or PAID.
func (s ReceiptStatus) CanTransitionTo(target ReceiptStatus) bool {
	switch target {
	case ReceiptStatusGenerated:
		return s == ReceiptStatusDraft
	case ReceiptStatusPaid:
		return s == ReceiptStatusGenerated
	case ReceiptStatusVoid:
		return s == ReceiptStatusGenerated || s == ReceiptStatusPaid
	}
	return false
}

// ParseReceiptStatus converts a status name to its enum value
func ParseReceiptStatus(str string) (ReceiptStatus, error) {
	switch str {
	case "DRAFT":
		return ReceiptStatusDraft, nil
	case "GENERATED":
		return ReceiptStatusGenerated, nil
	case "PAID":
		return ReceiptStatusPaid, nil
	case "VOID":
		return ReceiptStatusVoid, nil
	}
	return 0, fmt.Errorf("invalid receipt status: %s", str)
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReceiptStatus(i)
		return nil
	}
	switch str {
	case "DRAFT":
		*s = ReceiptStatusDraft
	case "GENERATED":
		*s = ReceiptStatusGenerated
	case "PAID":
		*s = ReceiptStatusPaid
	case "VOID":
		*s = ReceiptStatusVoid
	}
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReceiptStatus(v)
	case int:
		*s = ReceiptStatus(v)
	}
	return nil
}
