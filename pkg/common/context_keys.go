package common

type contextKey string

const (
	TraceIdKey         contextKey = "trace_id"
	PolicyContextKey   contextKey = "domain_policy"
	PolicyIdContextKey contextKey = "domain_policy_id"
	LatencyContextKey  contextKey = "__execution_time"
	ClientIPContextKey contextKey = "client_ip"
)
