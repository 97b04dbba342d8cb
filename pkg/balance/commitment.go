package balance

import (
	"encoding/hex"
	"sync"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// CommitmentLen is the encoded length of a balance commitment.
const CommitmentLen = decaf377.EncodingBytes

// ValueBlindingGenerator is the fixed base for commitment blinding factors.
var ValueBlindingGenerator = sync.OnceValue(func() decaf377.Element {
	s := crypto.DomainSeparator(crypto.BindingBasepoint)
	return decaf377.EncodeToCurve(&s)
})

// Commitment is a compressed balance commitment point.
type Commitment struct {
	enc decaf377.Encoding
}

// CommitmentFromElement compresses a commitment point.
func CommitmentFromElement(e decaf377.Element) Commitment {
	return Commitment{enc: e.Compress()}
}

// CommitmentFromBytes checks that b encodes a valid point.
func CommitmentFromBytes(b []byte) (Commitment, error) {
	if len(b) != CommitmentLen {
		return Commitment{}, errcode.InvalidLength
	}
	e, err := decaf377.DecompressBytes(b)
	if err != nil {
		return Commitment{}, err
	}
	return CommitmentFromElement(e), nil
}

// Bytes returns the compressed encoding.
func (c Commitment) Bytes() [CommitmentLen]byte {
	return [CommitmentLen]byte(c.enc)
}

// Element decompresses the commitment.
func (c Commitment) Element() (decaf377.Element, error) {
	return c.enc.Decompress()
}

func (c Commitment) String() string {
	return hex.EncodeToString(c.enc[:])
}

// MarshalProto encodes asset.v1.BalanceCommitment.
func (c Commitment) MarshalProto() []byte {
	return proto.Inner(c.enc[:])
}
