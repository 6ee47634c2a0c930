package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRUTCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"rut", "12345678-5"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "12.345.678-5\t123456785\n", out.String())
}

func TestRUTCommandRejectsChecksum(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"rut", "12.345.678-9"})
	assert.Error(t, cmd.Execute())
}

func TestImportCommandRejectsBadID(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "abc", "nomina.csv"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid campaign id")
}
