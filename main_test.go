package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, runDemo(&out, zap.NewNop()))

	batches := strings.Split(out.String(), "withdraw ")
	require.Len(t, batches, 3)

	first := batches[1]
	assert.Contains(t, first, "balance 1: 1000.00")
	assert.Contains(t, first, "balance 2: -3030.00")
	assert.Contains(t, first, "balance 3: 0.00")
	assert.NotContains(t, first, "limit_exceeded")

	second := batches[2]
	assert.Contains(t, second, "account 3 (savings): limit_exceeded")
	assert.Contains(t, second, "balance 1: 0.00")
	assert.Contains(t, second, "balance 2: -4040.00")
	assert.Contains(t, second, "balance 3: 0.00")
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd(nil, zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"demo"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "balance 2: -4040.00")
}
