package provider

import (
	"errors"
	"math"
	"testing"
	"time"
)

func rawBar(date string, close float64) RawBar {
	d, _ := time.Parse("2006-01-02", date)
	return RawBar{
		Date:     d,
		Open:     close * 0.99,
		High:     close * 1.01,
		Low:      close * 0.98,
		Close:    close,
		AdjClose: close,
		Volume:   1000,
	}
}

func TestNormalize_SortsAscending(t *testing.T) {
	raw := []RawBar{
		rawBar("2024-01-03", 101),
		rawBar("2024-01-01", 99),
		rawBar("2024-01-02", 100),
	}
	bars, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Fatalf("bars not sorted at index %d", i)
		}
	}
}

func TestNormalize_AdjCloseFallback(t *testing.T) {
	raw := rawBar("2024-01-01", 100)
	raw.AdjClose = 0
	bars, err := Normalize([]RawBar{raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bars[0].AdjClose != 100 {
		t.Errorf("expected adj_close fallback to close, got %v", bars[0].AdjClose)
	}
}

func TestNormalize_Malformed(t *testing.T) {
	nanPrice := rawBar("2024-01-01", 100)
	nanPrice.High = math.NaN()

	negVolume := rawBar("2024-01-01", 100)
	negVolume.Volume = -5

	tests := []struct {
		name string
		raw  []RawBar
	}{
		{"zero date", []RawBar{{Close: 100}}},
		{"nan price", []RawBar{nanPrice}},
		{"negative price", []RawBar{{Date: time.Now(), Close: -1}}},
		{"negative volume", []RawBar{negVolume}},
		{"duplicate date", []RawBar{rawBar("2024-01-01", 100), rawBar("2024-01-01", 101)}},
	}
	for _, tt := range tests {
		if _, err := Normalize(tt.raw); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: expected ErrMalformedResponse, got %v", tt.name, err)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	bars, err := Normalize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected empty output, got %d bars", len(bars))
	}
}
