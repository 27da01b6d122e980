package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyMarshal(t *testing.T) {
	cases := map[Money]string{
		0:    "0.00",
		5:    "0.05",
		300:  "3.00",
		550:  "5.50",
		801:  "8.01",
		-125: "-1.25",
	}
	for m, want := range cases {
		b, err := json.Marshal(m)
		assert.NoError(t, err)
		assert.Equal(t, want, string(b))
	}
}

func TestMoneyUnmarshal(t *testing.T) {
	cases := map[string]Money{
		"3.00":  300,
		"3":     300,
		"5.5":   550,
		"0.07":  7,
		"-1.25": -125,
	}
	for in, want := range cases {
		var m Money
		err := json.Unmarshal([]byte(in), &m)
		assert.NoError(t, err, in)
		assert.Equal(t, want, m, in)
	}
}

func TestMoneyUnmarshalRejectsSubCent(t *testing.T) {
	var m Money
	assert.Error(t, json.Unmarshal([]byte("1.234"), &m))
}

func TestMoneySumStaysExact(t *testing.T) {
	// 0.10 added a thousand times is exactly 100.00 in minor units.
	var total Money
	for i := 0; i < 1000; i++ {
		total += 10
	}
	assert.Equal(t, "100.00", total.String())
}
