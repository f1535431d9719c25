package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolvedRow struct {
	Provider string
	Source   string
}

func TestPlainFormatter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := New("plain", &out, &errOut)

	require.NoError(t, f.PrintValues([]string{"openai", "other"}))
	assert.Equal(t, "openai\nother\n", out.String())

	out.Reset()
	require.NoError(t, f.Print(resolvedRow{Provider: "openai", Source: "stored"}))
	assert.Equal(t, "Provider\topenai\nSource\tstored\n", out.String())

	out.Reset()
	require.NoError(t, f.PrintList([]resolvedRow{{Provider: "openai", Source: "env"}}, []Column{
		{Name: "Provider", Key: "Provider"},
		{Name: "Source", Key: "Source"},
	}))
	assert.Equal(t, "Provider\tSource\nopenai\tenv\n", out.String())

	assert.Error(t, f.PrintList("not a slice", nil))
}

func TestJSONFormatter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := New("json", &out, &errOut)

	require.NoError(t, f.PrintValues(nil))
	var values []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &values))
	assert.Equal(t, []string{}, values)

	out.Reset()
	require.NoError(t, f.PrintList([]map[string]string{{"Key": "a"}}, nil))
	var envelope struct {
		Data  []map[string]string `json:"data"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Count)

	f.PrintError(assert.AnError)
	f.PrintHint("ignored")
	var errObj map[string]string
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &errObj))
	assert.Equal(t, assert.AnError.Error(), errObj["error"])
}

func TestUnknownModeFallsBackToPlain(t *testing.T) {
	var out, errOut bytes.Buffer
	f := New("fancy", &out, &errOut)
	f.PrintHint("try again")
	assert.Equal(t, "hint: try again\n", errOut.String())
}
