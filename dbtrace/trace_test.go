package dbtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanName(t *testing.T) {
	type args struct {
		statement string
	}

	tests := []struct {
		name     string
		args     args
		wantName string
	}{
		{
			name:     "given SELECT statement, then returns SELECT",
			args:     args{statement: "SELECT * FROM users WHERE id = 1"},
			wantName: "SELECT",
		},
		{
			name:     "given INSERT statement, then returns INSERT",
			args:     args{statement: "INSERT INTO users (name) VALUES ('test')"},
			wantName: "INSERT",
		},
		{
			name:     "given empty statement, then returns SQL default",
			args:     args{statement: ""},
			wantName: "SQL",
		},
		{
			name:     "given whitespace only, then returns SQL default",
			args:     args{statement: "   "},
			wantName: "SQL",
		},
		{
			name:     "given lowercase statement, then returns uppercase verb",
			args:     args{statement: "select * from users"},
			wantName: "SELECT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spanName(tt.args.statement)
			assert.Equal(t, tt.wantName, got)
		})
	}
}

func TestExtractOperation(t *testing.T) {
	type args struct {
		statement string
	}

	tests := []struct {
		name          string
		args          args
		wantOperation string
	}{
		{
			name:          "given SELECT statement, then returns SELECT",
			args:          args{statement: "SELECT id FROM users"},
			wantOperation: "SELECT",
		},
		{
			name:          "given UPDATE statement, then returns UPDATE",
			args:          args{statement: "UPDATE users SET name = 'test'"},
			wantOperation: "UPDATE",
		},
		{
			name:          "given leading whitespace, then still returns verb",
			args:          args{statement: "   DELETE FROM users"},
			wantOperation: "DELETE",
		},
		{
			name:          "given empty string, then returns empty string",
			args:          args{statement: ""},
			wantOperation: "",
		},
		{
			name:          "given single word command, then returns that word uppercased",
			args:          args{statement: "COMMIT"},
			wantOperation: "COMMIT",
		},
		{
			name:          "given statement with tabs and newlines, then returns first word",
			args:          args{statement: "SELECT\n*\nFROM users"},
			wantOperation: "SELECT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractOperation(tt.args.statement)
			assert.Equal(t, tt.wantOperation, got)
		})
	}
}

func TestDefaultStatementSanitizer(t *testing.T) {
	type args struct {
		statement string
	}

	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "given numeric literal, then replaced with placeholder",
			args: args{statement: "SELECT * FROM users WHERE id = 123"},
			want: "SELECT * FROM users WHERE id = ?",
		},
		{
			name: "given string literal, then replaced with quoted placeholder",
			args: args{statement: "SELECT * FROM users WHERE name = 'john'"},
			want: "SELECT * FROM users WHERE name = '?'",
		},
		{
			name: "given hex literal, then replaced with placeholder",
			args: args{statement: "SELECT * FROM t WHERE v = 0xDEADBEEF"},
			want: "SELECT * FROM t WHERE v = ?",
		},
		{
			name: "given float literal, then replaced with placeholder",
			args: args{statement: "SELECT * FROM prices WHERE amount > 45.67"},
			want: "SELECT * FROM prices WHERE amount > ?",
		},
		{
			name: "given no literals, then unchanged",
			args: args{statement: "SELECT id FROM users"},
			want: "SELECT id FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultStatementSanitizer(tt.args.statement)
			assert.Equal(t, tt.want, got)
		})
	}
}
