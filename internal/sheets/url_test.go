package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "standard edit URL",
			url:  "https://docs.google.com/spreadsheets/d/ABC123/edit#gid=0",
			want: "ABC123",
		},
		{
			name: "URL with hyphen and underscore in ID",
			url:  "https://docs.google.com/spreadsheets/d/1aB-c_D2eF/edit",
			want: "1aB-c_D2eF",
		},
		{
			name: "bare sharing URL without trailing path",
			url:  "https://docs.google.com/spreadsheets/d/XYZ789",
			want: "XYZ789",
		},
		{
			name:    "URL without /d/ segment",
			url:     "https://docs.google.com/spreadsheets/edit#gid=0",
			wantErr: true,
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
		{
			name:    "unrelated URL",
			url:     "https://example.com/foo/bar",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSheetID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
