package entity

// ReceiptSequence backs yearly receipt numbering. One row per calendar year;
// last_seq is bumped with an upsert at generation time.
type ReceiptSequence struct {
	Year    int   `gorm:"primary_key;autoIncrement:false" json:"year"`
	LastSeq int64 `gorm:"not null" json:"last_seq"`
}

// TableName returns the table name for the ReceiptSequence model
func (ReceiptSequence) TableName() string {
	return "receipt_sequences"
}
