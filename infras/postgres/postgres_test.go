package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget_DSN(t *testing.T) {
	tests := []struct {
		name   string
		target target
		want   string
	}{
		{
			name: "plain",
			target: target{
				host: "db", port: "5432", username: "stay", password: "secret",
				database: "stayops", sslMode: "disable",
			},
			want: "postgres://stay:secret@db:5432/stayops?sslmode=disable",
		},
		{
			name: "escapes credentials and carries timezone",
			target: target{
				host: "db", port: "5432", username: "stay", password: "p@ss/word",
				database: "stayops", sslMode: "require", timezone: "Asia/Jakarta",
			},
			want: "postgres://stay:p%40ss%2Fword@db:5432/stayops?sslmode=require&timezone=Asia%2FJakarta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.dsn())
		})
	}
}
