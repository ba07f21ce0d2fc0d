package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLValidator(t *testing.T) {
	v := NewURLValidator(".storage.voicenativeapps.com", "app-media")

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "valid asset url",
			url:  "https://assets.storage.voicenativeapps.com/app-media/u1/logo-abc.png",
			want: true,
		},
		{
			name: "http rejected",
			url:  "http://assets.storage.voicenativeapps.com/app-media/u1/logo.png",
			want: false,
		},
		{
			name: "lookalike host rejected",
			url:  "https://evilstorage.voicenativeapps.com/app-media/u1/logo.png",
			want: false,
		},
		{
			name: "bare suffix without subdomain rejected",
			url:  "https://storage.voicenativeapps.com/app-media/u1/logo.png",
			want: false,
		},
		{
			name: "attacker domain with suffix in path rejected",
			url:  "https://evil.example.com/.storage.voicenativeapps.com/app-media/x.png",
			want: false,
		},
		{
			name: "wrong bucket rejected",
			url:  "https://assets.storage.voicenativeapps.com/other-bucket/u1/logo.png",
			want: false,
		},
		{
			name: "missing bucket path rejected",
			url:  "https://assets.storage.voicenativeapps.com/logo.png",
			want: false,
		},
		{
			name: "unparseable rejected",
			url:  "://not a url",
			want: false,
		},
		{
			name: "empty rejected",
			url:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValid(tt.url))
		})
	}
}
