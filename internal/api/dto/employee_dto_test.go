package dto

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalaryDecoding(t *testing.T) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	tests := []struct {
		body string
		want *float64
	}{
		{body: `{"salary": 1000}`, want: floatPtr(1000)},
		{body: `{"salary": 12.5}`, want: floatPtr(12.5)},
		{body: `{"salary": "1000"}`, want: floatPtr(1000)},
		{body: `{"salary": " 7.25 "}`, want: floatPtr(7.25)},
		{body: `{"salary": "abc"}`},
		{body: `{"salary": "1e3"}`},
		{body: `{"salary": ""}`},
		{body: `{"salary": true}`},
		{body: `{"salary": null}`},
		{body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req EmployeeRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Input().Salary)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
