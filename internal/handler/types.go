package handler

import (
	"time"

	"webhook-inbox-go/internal/model"
)

// MessageResponse is a stored message as exposed over HTTP
type MessageResponse struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Ts        string  `json:"ts"`
	Text      *string `json:"text"`
	CreatedAt string  `json:"created_at"`
}

// MessagesResponse is one page of messages
type MessagesResponse struct {
	Data   []MessageResponse `json:"data"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// SenderStat is the message count of a single sender
type SenderStat struct {
	From  string `json:"from"`
	Count int64  `json:"count"`
}

// StatsResponse represents the response from the stats endpoint
type StatsResponse struct {
	TotalMessages     int64        `json:"total_messages"`
	SendersCount      int64        `json:"senders_count"`
	MessagesPerSender []SenderStat `json:"messages_per_sender"`
	FirstMessageTs    *string      `json:"first_message_ts"`
	LastMessageTs     *string      `json:"last_message_ts"`
}

// StatusResponse is the body of successful webhook and probe calls
type StatusResponse struct {
	Status string `json:"status"`
}

// SchedulerStatusResponse reports the stats refresh job. Run times are null
// while stopped or before the first run.
type SchedulerStatusResponse struct {
	Status  string     `json:"status"`
	NextRun *time.Time `json:"next_run"`
	LastRun *time.Time `json:"last_run"`
}

// RootResponse represents the root endpoint response
type RootResponse struct {
	Message     string `json:"message"`
	ConfigCheck string `json:"config_check"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Code   int    `json:"code"`
}

func toMessageResponse(msg model.Message) MessageResponse {
	return MessageResponse{
		MessageID: msg.MessageID,
		From:      msg.FromAddress,
		To:        msg.ToAddress,
		Ts:        msg.Timestamp,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func toStatsResponse(stats *model.Stats) StatsResponse {
	senders := make([]SenderStat, 0, len(stats.TopSenders))
	for _, s := range stats.TopSenders {
		senders = append(senders, SenderStat{From: s.From, Count: s.Count})
	}

	return StatsResponse{
		TotalMessages:     stats.TotalMessages,
		SendersCount:      stats.SendersCount,
		MessagesPerSender: senders,
		FirstMessageTs:    stats.FirstTimestamp,
		LastMessageTs:     stats.LastTimestamp,
	}
}
