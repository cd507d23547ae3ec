package model

// SenderCount is the number of messages stored for one sender
type SenderCount struct {
	From  string `json:"from" gorm:"column:from_address"`
	Count int64  `json:"count" gorm:"column:count"`
}

// Stats aggregates the whole message table. FirstTimestamp and LastTimestamp
// are nil when no message is stored.
type Stats struct {
	TotalMessages  int64         `json:"total_messages"`
	SendersCount   int64         `json:"senders_count"`
	TopSenders     []SenderCount `json:"messages_per_sender"`
	FirstTimestamp *string       `json:"first_message_ts"`
	LastTimestamp  *string       `json:"last_message_ts"`
}
