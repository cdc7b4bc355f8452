package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignFor_PartitionsTheYear(t *testing.T) {
	// 2024 is a leap year, so February 29 is covered too.
	seen := make(map[Sign]int)
	for day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); day.Year() == 2024; day = day.AddDate(0, 0, 1) {
		md := monthDay{day.Month(), day.Day()}
		matches := 0
		for _, r := range zodiacTable {
			if r.contains(md) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "day %s", day.Format("01-02"))
		seen[SignFor(day)]++
	}
	assert.Len(t, seen, 12)
}

func TestSignFor_Boundaries(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  Sign
	}{
		{time.March, 20, SignPisces},
		{time.March, 21, SignAries},
		{time.April, 19, SignAries},
		{time.April, 20, SignTaurus},
		{time.June, 21, SignGemini},
		{time.June, 22, SignCancer},
		{time.October, 23, SignLibra},
		{time.October, 24, SignScorpio},
		{time.December, 21, SignSagittarius},
		{time.December, 22, SignCapricorn},
		{time.December, 31, SignCapricorn},
		{time.January, 1, SignCapricorn},
		{time.January, 19, SignCapricorn},
		{time.January, 20, SignAquarius},
		{time.February, 18, SignAquarius},
		{time.February, 19, SignPisces},
		{time.February, 29, SignPisces},
	}
	for _, tt := range tests {
		got := SignFor(time.Date(2024, tt.month, tt.day, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, tt.want, got, "%s %d", tt.month, tt.day)
	}
}

func TestIdentityNumber_Constellation(t *testing.T) {
	tests := map[string]Sign{
		numDec31Female:       SignCapricorn,
		numJan01Female:       SignCapricorn,
		numMar07Male:         SignPisces,
		numLeapDayFemale:     SignPisces,
		numJul15Male:         SignCancer,
		"110105198001205673": SignAquarius,
		"110105198001195671": SignCapricorn,
		"310104201012220030": SignCapricorn,
	}
	for raw, want := range tests {
		n := MustParse(raw, fixtureRegistry)
		assert.Equal(t, want, n.Constellation(), raw)
	}
}
