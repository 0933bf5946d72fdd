package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CalculationBasis determines how a fee rule amount is applied
type CalculationBasis int

const (
	// CalculationBasisFixed charges the rule amount once per receipt
	CalculationBasisFixed CalculationBasis = 0
	// CalculationBasisPerUnit multiplies the rule amount by the requested quantity
	CalculationBasisPerUnit CalculationBasis = 1
)

func (b CalculationBasis) String() string {
	return [...]string{"FIXED", "PER_UNIT"}[b]
}

func (b CalculationBasis) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *CalculationBasis) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*b = CalculationBasis(i)
		return nil
	}
	switch str {
	case "FIXED":
		*b = CalculationBasisFixed
	case "PER_UNIT":
		*b = CalculationBasisPerUnit
	}
	return nil
}

func (b CalculationBasis) Value() (driver.Value, error) {
	return int64(b), nil
}

func (b *CalculationBasis) Scan(value interface{}) error {
	if value == nil {
		*b = CalculationBasisFixed
		return nil
	}
	switch v := value.(type) {
	case int64:
		*b = CalculationBasis(v)
	case int:
		*b = CalculationBasis(v)
	}
	return nil
}
