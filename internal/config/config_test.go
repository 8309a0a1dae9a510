package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerAddr(t *testing.T) {
	s := Server{Host: "localhost", Port: "8000"}
	assert.Equal(t, "localhost:8000", s.Addr())
}
