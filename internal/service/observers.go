package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"webhook-inbox-go/internal/metrics"
	"webhook-inbox-go/internal/model"
)

// LoggingIngestion logs every ingestion handled by the wrapped Ingester
type LoggingIngestion struct {
	next Ingester
	log  logrus.FieldLogger
}

func NewLoggingIngestion(next Ingester, log logrus.FieldLogger) *LoggingIngestion {
	return &LoggingIngestion{next: next, log: log}
}

func (l *LoggingIngestion) Ingest(ctx context.Context, body []byte, sig string) (IngestResult, error) {
	start := time.Now()
	result, err := l.next.Ingest(ctx, body, sig)

	entry := l.log.WithFields(logrus.Fields{
		"message_id": result.MessageID,
		"result":     string(result.Outcome),
		"dup":        result.Outcome == OutcomeDuplicate,
		"latency_ms": float64(time.Since(start).Microseconds()) / 1000,
	})
	switch {
	case err != nil && result.Outcome == "":
		entry.WithError(err).Error("Webhook storage failed")
	case !result.Outcome.Accepted():
		entry.WithError(err).Warn("Webhook rejected")
	default:
		entry.Debug("Webhook ingested")
	}
	return result, err
}

// InstrumentedIngestion counts ingestion outcomes
type InstrumentedIngestion struct {
	next    Ingester
	metrics *metrics.Metrics
}

func NewInstrumentedIngestion(next Ingester, m *metrics.Metrics) *InstrumentedIngestion {
	return &InstrumentedIngestion{next: next, metrics: m}
}

func (i *InstrumentedIngestion) Ingest(ctx context.Context, body []byte, sig string) (IngestResult, error) {
	result, err := i.next.Ingest(ctx, body, sig)
	if result.Outcome != "" {
		i.metrics.WebhookRequests.WithLabelValues(string(result.Outcome)).Inc()
	}
	return result, err
}

// LoggingQuery logs queries served by the wrapped Querier
type LoggingQuery struct {
	next Querier
	log  logrus.FieldLogger
}

func NewLoggingQuery(next Querier, log logrus.FieldLogger) *LoggingQuery {
	return &LoggingQuery{next: next, log: log}
}

func (l *LoggingQuery) List(ctx context.Context, params ListParams) (*ListResult, error) {
	res, err := l.next.List(ctx, params)
	entry := l.log.WithFields(logrus.Fields{
		"from":  params.From,
		"since": params.Since,
		"q":     params.Query,
	})
	if err != nil {
		entry.WithError(err).Error("Message listing failed")
		return nil, err
	}
	entry.WithFields(logrus.Fields{
		"total":  res.Total,
		"limit":  res.Limit,
		"offset": res.Offset,
	}).Debug("Messages listed")
	return res, nil
}

func (l *LoggingQuery) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := l.next.Stats(ctx)
	if err != nil {
		l.log.WithError(err).Error("Stats computation failed")
		return nil, err
	}
	l.log.WithField("total_messages", stats.TotalMessages).Debug("Stats computed")
	return stats, nil
}
