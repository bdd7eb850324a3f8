package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenAddrDefault(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")

	assert.Equal(t, "0.0.0.0:8080", listenAddr())
}

func TestListenAddrFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9090")

	assert.Equal(t, "127.0.0.1:9090", listenAddr())
}
