package httpexec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessXMLResponse_StripsDeclarationAndWraps(t *testing.T) {
	raw := []byte(`<?xml version="1.0" encoding="UTF-8"?><ssl_result>0</ssl_result><ssl_txn_id>TXN123</ssl_txn_id>`)

	out, err := PreprocessXMLResponse(raw)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "0", got["ssl_result"])
	assert.Equal(t, "TXN123", got["ssl_txn_id"])
}

func TestPreprocessXMLResponse_ExistingTxnWrapper(t *testing.T) {
	raw := []byte(`<txn><ssl_result>0</ssl_result><ssl_amount>10.00</ssl_amount></txn>`)

	out, err := PreprocessXMLResponse(raw)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "10.00", got["ssl_amount"])
}

func TestPreprocessXMLResponse_EmptyElementBecomesEmptyString(t *testing.T) {
	raw := []byte(`<txn><ssl_result>0</ssl_result><error></error></txn>`)

	out, err := PreprocessXMLResponse(raw)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "", got["error"])
}
