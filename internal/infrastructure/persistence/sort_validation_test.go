package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE clients;--", "DESC"},
		{"whitespace only returns DESC", "   ", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortOrder(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"valid field returns field", "name", "created_at", "name"},
		{"valid field updated_at returns field", "updated_at", "created_at", "updated_at"},
		{"invalid field returns default", "invalid_field", "created_at", "created_at"},
		{"sql injection attempt returns default", "name; DROP TABLE clients;--", "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "NAME", "created_at", "created_at"},
		{"whitespace only returns default", "   ", "created_at", "created_at"},
		{"whitespace around valid field returns field", "  name  ", "created_at", "name"},
		{"field with spaces injection returns default", "name clients", "created_at", "created_at"},
		{"field with quotes injection returns default", "name'--", "created_at", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortField(tt.input, clientSortFields, tt.defaultField)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSQLInjectionPrevention(t *testing.T) {
	injectionPayloads := []string{
		"name; DROP TABLE clients;--",
		"name' OR '1'='1",
		"name\"; DROP TABLE clients;--",
		"name UNION SELECT * FROM clients",
		"name ORDER BY 1",
		"name, (SELECT email FROM clients)",
		"CASE WHEN 1=1 THEN name ELSE email END",
		"name/**/;DROP TABLE clients",
		"name\n; DROP TABLE clients",
		"name\t; DROP TABLE clients",
		"' OR ''='",
	}

	for _, payload := range injectionPayloads {
		t.Run("field: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortField(payload, clientSortFields, "created_at")
			assert.Equal(t, "created_at", result, "SQL injection payload should be rejected: %s", payload)
		})

		t.Run("order: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortOrder(payload)
			assert.Equal(t, "DESC", result, "SQL injection payload should be rejected: %s", payload)
		})
	}
}
