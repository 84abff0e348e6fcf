package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes that identify a deployment rejecting the transactional
// capability itself, as opposed to a transaction that aborted for a
// business or transient reason. The two must never be conflated: treating a
// genuine abort as "unsupported" would rerun its effects non-atomically.
const (
	codeIllegalOperation  = 20
	codeNoSuchTransaction = 251
)

// isTxnUnsupported reports whether err means the server cannot execute
// multi-document transactions at all. A standalone mongod rejects the
// transaction with IllegalOperation and a message about transaction
// numbers; older topologies answer the session start the same way.
func isTxnUnsupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == codeIllegalOperation {
			return true
		}
		if cmdErr.Code == codeNoSuchTransaction && strings.Contains(cmdErr.Message, "not supported") {
			return true
		}
	}

	// The driver refuses to even start a session against deployments
	// without logical session support.
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "does not support sessions")
}
