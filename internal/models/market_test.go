package models

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseSymbols(t *testing.T) {
	got := ParseSymbols(" aapl, msft ,,AAPL, googl ")
	want := []string{"AAPL", "MSFT", "GOOGL"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("", Period1Y)
	if err != nil || p != Period1Y {
		t.Errorf("expected fallback 1y, got %s (%v)", p, err)
	}
	p, err = ParsePeriod(" 6MO ", Period1Y)
	if err != nil || p != Period6M {
		t.Errorf("expected 6mo, got %s (%v)", p, err)
	}
	if _, err := ParsePeriod("10y", Period1Y); err == nil {
		t.Error("expected error for unsupported period")
	}
}

func TestPeriodTrim(t *testing.T) {
	var bars []Bar
	for d := day(2024, 1, 1); !d.After(day(2024, 12, 31)); d = d.AddDate(0, 0, 1) {
		bars = append(bars, Bar{Date: d, Close: 1})
	}

	oneMonth := Period1M.Trim(bars)
	if first := oneMonth[0].Date; !first.Equal(day(2024, 12, 1)) {
		t.Errorf("expected 1mo window to start 2024-12-01, got %s", first.Format("2006-01-02"))
	}

	oneDay := Period1D.Trim(bars)
	if len(oneDay) != 1 {
		t.Errorf("expected a single bar for 1d, got %d", len(oneDay))
	}

	all := Period5Y.Trim(bars)
	if len(all) != len(bars) {
		t.Errorf("expected 5y to keep all %d bars, got %d", len(bars), len(all))
	}

	if got := Period1Y.Trim(nil); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %d", len(got))
	}
}

func TestPeriodTrim_StartInclusive(t *testing.T) {
	bars := []Bar{
		{Date: day(2024, 5, 14), Close: 1},
		{Date: day(2024, 5, 15), Close: 2},
		{Date: day(2024, 6, 14), Close: 3},
		{Date: day(2024, 6, 15), Close: 4},
	}

	got := Period1M.Trim(bars)
	if len(got) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(got))
	}
	if !got[0].Date.Equal(day(2024, 5, 15)) {
		t.Errorf("expected the bar on the start date to be kept, got %s", got[0].Date.Format("2006-01-02"))
	}

	fiveDays := Period5D.Trim([]Bar{
		{Date: day(2024, 6, 9)}, {Date: day(2024, 6, 10)}, {Date: day(2024, 6, 15)},
	})
	if len(fiveDays) != 2 || !fiveDays[0].Date.Equal(day(2024, 6, 10)) {
		t.Errorf("expected 5d window to start 2024-06-10, got %d bars", len(fiveDays))
	}

	oneDay := Period1D.Trim(bars)
	if len(oneDay) != 1 || oneDay[0].Close != 4 {
		t.Errorf("expected only the last bar for 1d, got %v", oneDay)
	}
}

func TestValidHistory(t *testing.T) {
	if ValidHistory([]Bar{{Close: 1}}) {
		t.Error("one bar should not be a valid history")
	}
	if !ValidHistory([]Bar{{Close: 1}, {Close: 2}}) {
		t.Error("two bars should be a valid history")
	}
}

func TestInfoDisplayName(t *testing.T) {
	i := &Info{Symbol: "AAPL"}
	if i.DisplayName() != "AAPL" {
		t.Errorf("expected symbol fallback, got %s", i.DisplayName())
	}
	i.ShortName = "Apple"
	if i.DisplayName() != "Apple" {
		t.Errorf("expected short name, got %s", i.DisplayName())
	}
	i.LongName = "Apple Inc."
	if i.DisplayName() != "Apple Inc." {
		t.Errorf("expected long name, got %s", i.DisplayName())
	}
}

func TestESGScoresEmpty(t *testing.T) {
	var nilScores *ESGScores
	if !nilScores.Empty() {
		t.Error("nil scores should be empty")
	}
	v := 21.3
	if (&ESGScores{TotalESG: &v}).Empty() {
		t.Error("scores with a total should not be empty")
	}
}

func TestTickerDataLastClose(t *testing.T) {
	d := &TickerData{History: []Bar{{Close: 10}, {Close: 12.5}}}
	c, ok := d.LastClose()
	if !ok || c != 12.5 {
		t.Errorf("expected 12.5, got %v (%v)", c, ok)
	}
	if _, ok := (&TickerData{}).LastClose(); ok {
		t.Error("expected no close without history")
	}
}
