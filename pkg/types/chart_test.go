package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChartHasBackup(t *testing.T) {
	tests := []struct {
		name   string
		params string
		want   bool
	}{
		{
			name:   "params with backup marker",
			params: `{"viz_type":"treemap_v2","form_data_bak":{"viz_type":"treemap"}}`,
			want:   true,
		},
		{
			name:   "params without marker",
			params: `{"viz_type":"treemap_v2"}`,
			want:   false,
		},
		{
			name:   "empty params",
			params: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Chart{Params: tt.params}
			assert.Equal(t, tt.want, c.HasBackup())
		})
	}
}
