package session

import (
	"go.uber.org/zap"
)

// ResultSink receives the result of every completed session.
type ResultSink interface {
	Deliver(r Result)
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(r Result)

func (f ResultSinkFunc) Deliver(r Result) { f(r) }

// MultiSink fans a result out to several sinks in order.
type MultiSink []ResultSink

func (m MultiSink) Deliver(r Result) {
	for _, s := range m {
		if s != nil {
			s.Deliver(r)
		}
	}
}

// LogSink writes each result as a structured log line.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a LogSink. A nil logger discards results.
func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Deliver(r Result) {
	fields := []zap.Field{
		zap.String("session_id", r.SessionID),
		zap.String("chapter", r.ChapterKey),
		zap.Int("served", r.Served),
		zap.Int("total", r.TotalQuestions),
		zap.Float64("average", r.Average),
		zap.Int("score_sum", r.ScoreSum),
		zap.Int("score_counted", r.ScoreCounted),
		zap.Bool("ended_early", r.EndedEarly),
		zap.Duration("duration", r.Duration()),
	}
	for _, row := range r.Rows() {
		fields = append(fields, zap.Dict(levelKey(row.Level),
			zap.Int("correct", row.Correct),
			zap.Int("wrong", row.Wrong),
		))
	}
	s.log.Info("session result", fields...)
}
