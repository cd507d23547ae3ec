package model

// Message represents a stored webhook message. MessageID is the idempotency key.
// Keys and ts compare by character code on every backend; the mysql and
// postgres tables are created with binary collation by the database package.
type Message struct {
	MessageID   string  `json:"message_id" gorm:"column:message_id;type:varchar(768);primaryKey"`
	FromAddress string  `json:"from" gorm:"column:from_address;type:varchar(768);not null;index"`
	ToAddress   string  `json:"to" gorm:"column:to_address;type:varchar(768);not null"`
	Timestamp   string  `json:"ts" gorm:"column:ts;type:varchar(768);not null;index"`
	Text        *string `json:"text" gorm:"column:text;type:text"`
	CreatedAt   string  `json:"created_at" gorm:"column:created_at;type:varchar(64);not null"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "messages"
}
