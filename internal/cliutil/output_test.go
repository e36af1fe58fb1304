package cliutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestCLIPrint(t *testing.T) {
	type sample struct {
		Name string `json:"name" yaml:"name"`
		Age  int    `json:"age" yaml:"age"`
	}
	data := sample{Name: "pod-a", Age: 3}

	tests := []struct {
		name       string
		format     string
		headers    []any
		rowData    [][]any
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "yaml",
			format:     "yaml",
			wantOutput: "name: pod-a\nage: 3\n",
		},
		{
			name:       "json",
			format:     "json",
			wantOutput: "{\n  \"name\": \"pod-a\",\n  \"age\": 3\n}",
		},
		{
			name:    "table",
			format:  "table",
			headers: []any{"Name", "Age"},
			rowData: [][]any{{"pod-a", 3}},
		},
		{
			name:    "unsupported format",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "table without headers or rowData",
			format:  "table",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := CLIPrint(&buf, tt.format, data, tt.headers, tt.rowData)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CLIPrint() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.format == "table" {
				out := buf.String()
				if !strings.Contains(out, "Name") || !strings.Contains(out, "Age") {
					t.Errorf("table output missing headers, got %q", out)
				}
				return
			}
			if buf.String() != tt.wantOutput {
				t.Errorf("output = %q, want %q", buf.String(), tt.wantOutput)
			}
		})
	}
}
