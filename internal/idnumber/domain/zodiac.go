package domain

import (
	"fmt"
	"time"
)

// Sign is a western zodiac sign.
type Sign string

const (
	SignAries       Sign = "aries"
	SignTaurus      Sign = "taurus"
	SignGemini      Sign = "gemini"
	SignCancer      Sign = "cancer"
	SignLeo         Sign = "leo"
	SignVirgo       Sign = "virgo"
	SignLibra       Sign = "libra"
	SignScorpio     Sign = "scorpio"
	SignSagittarius Sign = "sagittarius"
	SignCapricorn   Sign = "capricorn"
	SignAquarius    Sign = "aquarius"
	SignPisces      Sign = "pisces"
)

type monthDay struct {
	month time.Month
	day   int
}

func (md monthDay) ordinal() int {
	return int(md.month)*100 + md.day
}

type signRange struct {
	sign       Sign
	start, end monthDay
}

// contains is inclusive on both ends. A range whose start falls after its
// end wraps across the new year.
func (r signRange) contains(md monthDay) bool {
	start, end, v := r.start.ordinal(), r.end.ordinal(), md.ordinal()
	if start <= end {
		return v >= start && v <= end
	}
	return v >= start || v <= end
}

// zodiacTable partitions the calendar year; order matters for the scan.
var zodiacTable = [12]signRange{
	{SignAries, monthDay{time.March, 21}, monthDay{time.April, 19}},
	{SignTaurus, monthDay{time.April, 20}, monthDay{time.May, 20}},
	{SignGemini, monthDay{time.May, 21}, monthDay{time.June, 21}},
	{SignCancer, monthDay{time.June, 22}, monthDay{time.July, 22}},
	{SignLeo, monthDay{time.July, 23}, monthDay{time.August, 22}},
	{SignVirgo, monthDay{time.August, 23}, monthDay{time.September, 22}},
	{SignLibra, monthDay{time.September, 23}, monthDay{time.October, 23}},
	{SignScorpio, monthDay{time.October, 24}, monthDay{time.November, 22}},
	{SignSagittarius, monthDay{time.November, 23}, monthDay{time.December, 21}},
	{SignCapricorn, monthDay{time.December, 22}, monthDay{time.January, 19}},
	{SignAquarius, monthDay{time.January, 20}, monthDay{time.February, 18}},
	{SignPisces, monthDay{time.February, 19}, monthDay{time.March, 20}},
}

// SignFor returns the sign whose range contains t's month and day.
func SignFor(t time.Time) Sign {
	md := monthDay{t.Month(), t.Day()}
	for _, r := range zodiacTable {
		if r.contains(md) {
			return r.sign
		}
	}
	panic(fmt.Sprintf("zodiac table has no entry for %s %d", md.month, md.day))
}

// Constellation returns the zodiac sign of the birth date.
func (n IdentityNumber) Constellation() Sign {
	return SignFor(n.birthDate)
}
