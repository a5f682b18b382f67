package timeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGreeting(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{5, "Bom dia"},
		{11, "Bom dia"},
		{12, "Boa tarde"},
		{17, "Boa tarde"},
		{18, "Boa noite"},
		{23, "Boa noite"},
		{0, "Boa noite"},
		{4, "Boa noite"},
	}

	for _, c := range cases {
		at := time.Date(2024, 3, 10, c.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, c.want, Greeting(at), "hour %d", c.hour)
	}
}
