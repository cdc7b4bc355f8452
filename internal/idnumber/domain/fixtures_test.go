package domain

// Checksum-correct fixtures.
const (
	numDec31Female   = "11010519491231002X" // 1949-12-31, sequence digit 2
	numMar07Male     = "110105199003071239" // 1990-03-07, sequence digit 3
	numLeapDayFemale = "440305198802294562" // 1988-02-29, sequence digit 6
	numJul15Male     = "330106198507150013" // 1985-07-15
	numJan01Female   = "510107197001010027" // 1970-01-01
	numNewYear2010   = "110105201001010010" // 2010-01-01, ISO week-year 2009
	numMonth13       = "110105200013011235" // checksum ok, month 13
	numFeb29NonLeap  = "110105200102290037" // checksum ok, 2001-02-29
	numFeb29Century  = "110105190002290017" // checksum ok, 1900-02-29
	numFeb29Y2K      = "110105200002290021" // 2000-02-29 is real
	numFeb31         = "110105199902310029" // checksum ok, February 31

	legacyDec31Female = "110105491231002" // 1949-12-31, sequence digit 2
	legacyLetterTail  = "11010549123100X" // 1949-12-31, non-digit sequence
)

var fixtureRegistry = ProvinceRegistryFunc(func(code string) bool {
	switch code {
	case "110105", "440305", "330106":
		return true
	}
	return false
})

var fixtureRegions = RegionNames{
	"110000": "北京市",
	"110100": "市辖区",
	"110105": "朝阳区",
	"440000": "广东省",
	"440300": "深圳市",
	"440305": "南山区",
}
