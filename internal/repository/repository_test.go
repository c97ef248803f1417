package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitRedis_Fail(t *testing.T) {
	// Nothing listens on port 1
	client, err := InitRedis(context.Background(), "localhost:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, client)
}
