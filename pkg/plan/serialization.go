package plan

import (
	"bytes"
	"encoding/json"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// Version is the only plan file version understood.
const Version = uint32(1)

// New returns an empty plan at the current version.
func New(parameters []byte, actions ...ActionPlan) *TransactionPlan {
	t := &TransactionPlan{Version: Version, Parameters: parameters}
	for _, a := range actions {
		t.Actions = append(t.Actions, NewAction(a))
	}
	return t
}

// Serialize encodes a plan as indented JSON.
func Serialize(t *TransactionPlan) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, errcode.Wrap(err, errcode.UnexpectedData, "encode plan")
	}
	return out, nil
}

// Parse decodes and validates a plan file. Unknown fields are rejected.
func Parse(data []byte) (*TransactionPlan, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errcode.NoData
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var t TransactionPlan
	if err := dec.Decode(&t); err != nil {
		if code := errcode.FromError(err); code != errcode.UnexpectedError {
			return nil, errcode.Wrap(err, code, "decode plan")
		}
		return nil, errcode.Wrap(err, errcode.UnexpectedData, "decode plan")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
