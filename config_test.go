package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{port: 8080, cardCount: 272, chartCount: 44}
	assert.NoError(t, valid.validate())

	badPort := valid
	badPort.port = 0
	assert.Error(t, badPort.validate())

	halfTLS := valid
	halfTLS.tlsCert = "cert.pem"
	assert.Error(t, halfTLS.validate())

	noCards := valid
	noCards.cardCount = 0
	assert.Error(t, noCards.validate())

	noCharts := valid
	noCharts.chartCount = 0
	assert.Error(t, noCharts.validate())
}

func TestConfig_Scheme(t *testing.T) {
	t.Parallel()

	c := Config{}
	assert.Equal(t, "http", c.scheme())

	c.tlsCert, c.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", c.scheme())
}
