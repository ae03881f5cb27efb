package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title", "SSC CGL Recruitment 2026", "ssc-cgl-recruitment-2026"},
		{"punctuation stripped", "UPSC: Civil Services (Prelims)!", "upsc-civil-services-prelims"},
		{"whitespace runs", "Indian   Railway \t Apprentice", "indian-railway-apprentice"},
		{"leading and trailing space", "  Postal Assistant  ", "postal-assistant"},
		{"already a slug", "army-gd-constable", "army-gd-constable"},
		{"hyphen runs collapse", "navy -- mr --- agniveer", "navy-mr-agniveer"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"SSC CGL Recruitment 2026",
		"UPSC: Civil Services (Prelims)!",
		"  mixed CASE  & symbols #42 ",
		"already-a-slug",
		"",
	}

	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "Slugify must be idempotent for %q", in)
	}
}
