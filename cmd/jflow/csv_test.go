package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danhawkins/streamjson/clilog"
)

func TestCSVCmd_ConvertsSingleFile(t *testing.T) {
	path := writeTempFile(t, "name,age\nAlice,30\nBob,25\n")
	cmd := newCSVCmd(clilog.NewConfig())
	cmd.SetArgs([]string{"--indent=", path})

	out := captureStdout(t, func() {
		require.NoError(t, cmd.Execute())
	})
	require.Equal(t, `[{"name":"Alice","age":30},{"name":"Bob","age":25}]`+"\n", out)
}

func TestCSVCmd_DropsRepeatedHeaderAcrossSources(t *testing.T) {
	first := writeTempFile(t, "name,age\nAlice,30\n")
	second := writeTempFile(t, "name,age\nBob,25\n")

	cmd := newCSVCmd(clilog.NewConfig())
	cmd.SetArgs([]string{"--indent=", first, second})

	out := captureStdout(t, func() {
		require.NoError(t, cmd.Execute())
	})
	require.Equal(t, `[{"name":"Alice","age":30},{"name":"Bob","age":25}]`+"\n", out)
}

func TestCSVCmd_InfersScalarKinds(t *testing.T) {
	path := writeTempFile(t, "name,active,nickname\nAlice,true,\n")
	cmd := newCSVCmd(clilog.NewConfig())
	cmd.SetArgs([]string{"--indent=", path})

	out := captureStdout(t, func() {
		require.NoError(t, cmd.Execute())
	})
	require.Equal(t, `[{"name":"Alice","active":true,"nickname":null}]`+"\n", out)
}

func TestCSVCmd_RejectsBadCommaFlag(t *testing.T) {
	path := writeTempFile(t, "a,b\n1,2\n")
	cmd := newCSVCmd(clilog.NewConfig())
	cmd.SetArgs([]string{"--comma=ab", path})
	require.Error(t, cmd.Execute())
}

func TestCSVCmd_UnresolvableSpecFails(t *testing.T) {
	cmd := newCSVCmd(clilog.NewConfig())
	cmd.SetArgs([]string{"/no/such/path/*.csv"})
	require.Error(t, cmd.Execute())
}
