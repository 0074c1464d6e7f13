package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

const (
	okLine  = `{"id":"order-1","user_id":"user-1","items":[{"id":"order-1-item-1","product_id":"product-1","quantity":100}]}`
	badLine = `{"id":"order-2","user_id":"user-1","items":[{"id":"order-2-item-1","product_id":"product-1","quantity":-1}]}`
)

func TestRun_StdinJSONL(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run("", validate.FormatAuto, "jsonl", false, true, strings.NewReader(okLine+"\n"+badLine+"\n"), &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, okLine+"\n", stdout.String())
	assert.Contains(t, stderr.String(), "record 2:")
	assert.Contains(t, stderr.String(), "validation ok (1 valid / 1 invalid)")
}

func TestRun_Strict(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run("", validate.FormatJSONL, "jsonl", true, false, strings.NewReader(badLine), &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Empty(t, stdout.String())
}

func TestRun_SeedOutput(t *testing.T) {
	var stdout bytes.Buffer
	err := run("", validate.FormatJSONL, "seed", false, false, strings.NewReader(okLine), &stdout, &bytes.Buffer{})
	require.NoError(t, err)

	var seed []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &seed))
	require.Len(t, seed, 1)
	assert.Equal(t, "order-1", seed[0]["id"])
}

func TestRun_Errors(t *testing.T) {
	err := run("", validate.FormatAuto, "xml", false, false, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown output")

	err = run("no-such-file.json", validate.FormatAuto, "jsonl", false, false, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "open file")
	assert.Equal(t, 1, exitCode(err))
}
