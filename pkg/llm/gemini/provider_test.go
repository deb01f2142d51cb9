package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOverload(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       bool
	}{
		{"rate limited", 429, `{}`, true},
		{"service unavailable", 503, `{}`, true},
		{"unavailable status in body", 500, `{"error":{"code":500,"status":"UNAVAILABLE","message":"try later"}}`, true},
		{"resource exhausted in body", 500, `{"error":{"code":500,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`, true},
		{"overloaded message", 500, `{"error":{"code":500,"status":"INTERNAL","message":"The model is overloaded."}}`, true},
		{"plain internal error", 500, `{"error":{"code":500,"status":"INTERNAL","message":"boom"}}`, false},
		{"bad request", 400, `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad schema"}}`, false},
		{"unparseable body", 500, `<html>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyOverload(tt.statusCode, []byte(tt.body)))
		})
	}
}

func TestCleanJSONFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONFences(tt.in))
		})
	}
}
