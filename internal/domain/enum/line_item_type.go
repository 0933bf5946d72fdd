package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LineItemType classifies a receipt line item
type LineItemType int

const (
	LineItemTypeFuel   LineItemType = 0
	LineItemTypeFee    LineItemType = 1
	LineItemTypeWaiver LineItemType = 2
	LineItemTypeTax    LineItemType = 3
)

func (t LineItemType) String() string {
	return [...]string{"FUEL", "FEE", "WAIVER", "TAX"}[t]
}

func (t LineItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LineItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = LineItemType(i)
		return nil
	}
	switch str {
	case "FUEL":
		*t = LineItemTypeFuel
	case "FEE":
		*t = LineItemTypeFee
	case "WAIVER":
		*t = LineItemTypeWaiver
	case "TAX":
		*t = LineItemTypeTax
	}
	return nil
}

func (t LineItemType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *LineItemType) Scan(value interface{}) error {
	if value == nil {
		*t = LineItemTypeFuel
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = LineItemType(v)
	case int:
		*t = LineItemType(v)
	}
	return nil
}

// WaiverSource records how a waiver line item came to exist
type WaiverSource int

const (
	WaiverSourceAutomatic WaiverSource = 0
	WaiverSourceManual    WaiverSource = 1
)

func (w WaiverSource) String() string {
	return [...]string{"AUTOMATIC", "MANUAL"}[w]
}

func (w WaiverSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *WaiverSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*w = WaiverSource(i)
		return nil
	}
	switch str {
	case "AUTOMATIC":
		*w = WaiverSourceAutomatic
	case "MANUAL":
		*w = WaiverSourceManual
	}
	return nil
}

func (w WaiverSource) Value() (driver.Value, error) {
	return int64(w), nil
}

func (w *WaiverSource) Scan(value interface{}) error {
	if value == nil {
		*w = WaiverSourceAutomatic
		return nil
	}
	switch v := value.(type) {
	case int64:
		*w = WaiverSource(v)
	case int:
		*w = WaiverSource(v)
	}
	return nil
}
