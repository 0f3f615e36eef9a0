package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "control chars stripped", in: "he\x00llo\nwo\x7frld\t!", want: "hello\nworld\t!"},
		{name: "surrounding whitespace trimmed", in: "  my land is 2 acres  ", want: "my land is 2 acres"},
		{name: "multi-line kept", in: "name: Ravi\r\nstate: Karnataka", want: "name: Ravi\r\nstate: Karnataka"},
		{name: "unicode untouched", in: "मेरे पास 2 एकड़ जमीन है", want: "मेरे पास 2 एकड़ जमीन है"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}
