package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		commandsReceivedTotal,
		sessionsCreatedTotal,
		broadcastSendsTotal,
	)
}

var (
	commandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_received_total",
			Help: "Counts incoming commands from chats.",
		},
		[]string{"command"},
	)

	sessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_sessions_created_total",
			Help: "Total number of chat sessions created.",
		},
	)

	broadcastSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_broadcast_sends_total",
			Help: "Broadcast deliveries by outcome (ok/failed).",
		},
		[]string{"outcome"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCommand(command string) {
	commandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncSessionCreated() {
	sessionsCreatedTotal.Inc()
}

func IncBroadcastSend(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	broadcastSendsTotal.WithLabelValues(outcome).Inc()
}
