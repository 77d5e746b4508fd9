package address_test

import (
	"testing"

	"parcel-watch/core/address"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"Whitespace only", "   \t ", ""},
		{"Lowercase and collapse", "  123   MAIN   St ", "123 main st"},
		{"Punctuation", "123 Main St., Apt #4, Springfield", "123 main st apt 4 springfield"},
		{"Street types", "1 Oak Avenue 2 Elm Drive 3 Pine Road", "1 oak ave 2 elm dr 3 pine rd"},
		{"More street types", "Lane Court Place Boulevard Circle Parkway", "ln ct pl blvd cir pkwy"},
		{"Directionals", "100 North Main Street West", "100 n main st w"},
		{"Word boundary keeps substrings", "12 Courtney Streetly Rd", "12 courtney streetly rd"},
		{"Highway with direction", "4500 Highway 17 N", "4500 hwy 17"},
		{"Highway without direction", "4500 Highway 17", "4500 hwy 17"},
		{"SC route", "4500 SC-17", "4500 hwy 17"},
		{"Leading directional before hwy", "200 North Highway 501", "200 hwy 501"},
		{"Trailing directional after hwy", "200 Hwy 501 South", "200 hwy 501"},
		{"Repeated trailing directionals", "200 hwy 501 n n", "200 hwy 501"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, address.Normalize(tt.in))
		})
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	assert.Equal(t,
		address.Normalize("123 North Main Street"),
		address.Normalize("123 N Main St"),
	)
	assert.Equal(t,
		address.Normalize("4500 Highway 17 S, Myrtle Beach"),
		address.Normalize("4500 SC-17, Myrtle Beach"),
	)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"123 North Main Street",
		"4500 Highway 17 N, Myrtle Beach, SC 29577",
		"North Highway 501 West",
		"  77 West Lakeshore Boulevard #12 ",
		"sc-9 east",
		"1 E. Court Pl.",
	}

	for _, in := range inputs {
		once := address.Normalize(in)
		assert.Equal(t, once, address.Normalize(once), "input %q", in)
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	assert.Equal(t,
		address.Normalize("123 main street"),
		address.Normalize("123 MAIN STREET"),
	)
	assert.Equal(t,
		address.Normalize("Highway 9"),
		address.Normalize("HIGHWAY 9"),
	)
}

func TestStripCountry(t *testing.T) {
	assert.Equal(t, "123 Main Street, Springfield, IL 12345",
		address.StripCountry("123 Main Street, Springfield, IL 12345, United States"))
	assert.Equal(t, "123 Main Street, Springfield",
		address.StripCountry("123 Main Street, Springfield, UNITED STATES "))
	assert.Equal(t, "123 Main Street", address.StripCountry("123 Main Street"))
}

func TestStreetPart(t *testing.T) {
	assert.Equal(t, "123 Main Street", address.StreetPart("123 Main Street, Springfield, IL"))
	assert.Equal(t, "123 Main Street", address.StreetPart(" 123 Main Street "))
	assert.Equal(t, "", address.StreetPart(""))
}
