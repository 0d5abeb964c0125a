// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"go-checkin-gateway/logger"
)

// Namespace for all gateway metrics
var metricsNamespace = "CheckinGateway"

// Reuse a single CloudWatch client for all metrics calls
var cwClient = cloudwatch.New(session.Must(session.NewSession()))

// metricsEnabled gates publication; tests and local runs leave it off.
var metricsEnabled = false

// EnableMetrics turns on CloudWatch publication.
func EnableMetrics() {
	metricsEnabled = true
}

// PublishWatcherConnections pushes the current WebSocket watcher count.
func PublishWatcherConnections(count int, eventID string) {
	putMetric("WatcherConnections", float64(count), "Count", eventID)
}

// PublishSubmitLatency pushes the backend round-trip time for one
// check-in/check-out submission (in ms).
func PublishSubmitLatency(latencyMs float64, eventID string) {
	putMetric("SubmitLatencyMs", latencyMs, "Milliseconds", eventID)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string, eventID string) {
	if !metricsEnabled {
		return
	}
	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("EventID"),
						Value: aws.String(eventID),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})
	if err != nil {
		logger.Warn.Printf("Failed to publish metric %s: %v", metricName, err)
	}
}
