package connectorerrors

// IntegrityCheckError reports a divergence between the fields the caller
// requested and the fields the connector's response actually reflects
//. FieldNames is sorted by the caller for determinism.
func IntegrityCheckError(connector, reason string, fieldNames []string, connectorTxID string) *Error {
	e := New(KindIntegrityCheckError, reason).
		WithDetails("connector", connector).
		WithDetails("field_names", fieldNames)
	if connectorTxID != "" {
		e.WithDetails("connector_txn_id", connectorTxID)
	}
	return e
}
