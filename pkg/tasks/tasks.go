// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

import "time"

// ChatEventTask represents one processed chat turn for the analytics stream.
type ChatEventTask struct {
	SessionID      string    `json:"session_id"`
	Intent         string    `json:"intent"`
	EmergencyLevel string    `json:"emergency_level"`
	Source         string    `json:"source"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}
