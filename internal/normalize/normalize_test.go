package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "sales", "sales"},
		{"uppercase", "SaaS", "saas"},
		{"spaces", "Early Revenue", "early-revenue"},
		{"underscores", "client_acquisition", "client-acquisition"},
		{"mixed runs", "Client  _ Acquisition", "client-acquisition"},
		{"surrounding whitespace", "  growth  ", "growth"},
		{"already hyphenated", "early-revenue", "early-revenue"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.input))
		})
	}
}

func TestTheme(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "sales", "sales"},
		{"spaces become hyphens", "Client Acquisition", "client-acquisition"},
		{"canon sentinel keeps underscore", "services_canon", "services_canon"},
		{"uppercase sentinel", "SaaS_Canon", "saas_canon"},
		{"surrounding whitespace", "  growth ", "growth"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Theme(tt.input))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces", "Client Acquisition", "client-acquisition"},
		{"slash", "Sales/Marketing", "sales-marketing"},
		{"accents", "Café Strategy", "cafe-strategy"},
		{"punctuation", "Pricing: The Art!", "pricing-the-art"},
		{"collapses hyphens", "a -- b", "a-b"},
		{"trims hyphens", "-growth-", "growth"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.input))
		})
	}
}

func TestTitleAuthorKey(t *testing.T) {
	a := TitleAuthorKey("The Mom Test", "Rob Fitzpatrick")
	b := TitleAuthorKey("the mom test", "ROB FITZPATRICK")
	c := TitleAuthorKey(" The Mom Test ", "Rob Fitzpatrick")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	// Different authors must not collide.
	d := TitleAuthorKey("The Mom Test", "Someone Else")
	assert.NotEqual(t, a, d)
}
