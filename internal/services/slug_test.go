package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EchoNotes", "echonotes"},
		{"Voice Memo Pro", "voice-memo-pro"},
		{"  Hey!  Listen?  ", "hey-listen"},
		{"already-a-slug", "already-a-slug"},
		{"C3PO & R2D2", "c3po-r2d2"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestTimestampSuffix(t *testing.T) {
	at := time.UnixMilli(1750000000000)
	got := TimestampSuffix(at)

	parsed, err := strconv.ParseInt(got, 36, 64)
	assert.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), parsed)
}
