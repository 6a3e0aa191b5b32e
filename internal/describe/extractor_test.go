package describe

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback string
		want     string
	}{
		{
			name:     "vietnamese bank sms",
			text:     "GD: -150,000 VND tai GRAB*TRIP Ho Chi Minh luc 14:30 ngay 05/08/2025. So du: 2,500,000 VND.",
			fallback: FallbackBank,
			want:     "tai GRAB*TRIP Ho Chi Minh luc ngay",
		},
		{
			name:     "labels removed case-insensitively",
			text:     "transaction: Coffee at Highlands balance: 45,000 VND",
			fallback: FallbackBank,
			want:     "Coffee at Highlands",
		},
		{
			name:     "too short falls back",
			text:     "GD: -45,000 VND 12:30",
			fallback: FallbackBank,
			want:     FallbackBank,
		},
		{
			name:     "empty falls back",
			text:     "",
			fallback: FallbackWallet,
			want:     FallbackWallet,
		},
		{
			name:     "whitespace collapsed",
			text:     "Salary   transfer   from   COMPANY ABC",
			fallback: FallbackBank,
			want:     "Salary transfer from COMPANY ABC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text, tt.fallback); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractNeverEmpty(t *testing.T) {
	inputs := []string{"", "  ", "-1", "12:30 01/01/2025", "GD: So du:"}
	for _, in := range inputs {
		if got := Extract(in, FallbackBank); got == "" {
			t.Errorf("Extract(%q) returned empty string", in)
		}
	}
}

func TestExtractChatNarrative(t *testing.T) {
	long := "Vietcombank chuyen khoan den tai khoan 0123456789 thoi gian 05/08/2025 14:30 " +
		"so tien: 1,500,000 VND noi dung: tien nha thang 8 tu anh Minh"
	got := ExtractChat(long)
	if !strings.Contains(got, "tien nha thang 8") {
		t.Errorf("ExtractChat narrative clause = %q, want the memo text after the marker", got)
	}
	if strings.Contains(got, "0123456789") {
		t.Errorf("ExtractChat kept routing boilerplate: %q", got)
	}

	short := "coffee with friends"
	if got := ExtractChat(short); got != "coffee with friends" {
		t.Errorf("ExtractChat(%q) = %q, want unchanged", short, got)
	}
}
