package postgres

import "testing"

func TestOperation(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"\n\t\tINSERT INTO agents (agent_id) VALUES ($1)", "insert"},
		{"SELECT 1", "select"},
		{"update agents SET status = $2", "update"},
		{"   ", "unknown"},
	}
	for _, tt := range tests {
		if got := operation(tt.sql); got != tt.want {
			t.Errorf("operation(%q) = %q, want %q", tt.sql, got, tt.want)
		}
	}
}
