package util

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{
			name:  "iso with milliseconds",
			value: "2018-03-01T10:00:00.123Z",
			want:  "2018-03-01T10:00:00.123Z",
		},
		{
			name:  "iso without zone",
			value: "2018-03-01 10:00:00",
			want:  "2018-03-01T10:00:00.000Z",
		},
		{
			name:  "offset normalized to utc",
			value: "2018-03-01T12:00:00+02:00",
			want:  "2018-03-01T10:00:00.000Z",
		},
		{
			name:    "garbage",
			value:   "not a date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) succeeded, want error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) failed: %v", tt.value, err)
			}
			if lit := TimeLiteral(got); lit != tt.want {
				t.Errorf("TimeLiteral = %q, want %q", lit, tt.want)
			}
		})
	}
}

func TestFromUnixMilli(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{name: "epoch", ms: 0, want: "1970-01-01T00:00:00.000Z"},
		{name: "millisecond remainder kept", ms: 1234, want: "1970-01-01T00:00:01.234Z"},
		{name: "modern instant", ms: 1520000000000, want: "2018-03-02T14:13:20.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromUnixMilli(tt.ms)
			if got.Location() != time.UTC {
				t.Errorf("FromUnixMilli(%d) is not UTC", tt.ms)
			}
			if lit := TimeLiteral(got); lit != tt.want {
				t.Errorf("TimeLiteral = %q, want %q", lit, tt.want)
			}
		})
	}
}
