package ringwalk

import (
	cbor "github.com/fxamacker/cbor/v2"
)

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR returns a codec using the json codec's tagged layout in deterministic CBOR
func CBOR() Codec {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	dm, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}

	return cborCodec{enc: em, dec: dm}
}

func (cborCodec) Name() string { return "cbor" }

func (c cborCodec) Encode(m Message) ([]byte, error) {
	v, err := taggedValue(m)
	if err != nil {
		return nil, err
	}
	return c.enc.Marshal(v)
}

func (c cborCodec) Decode(data []byte) (Message, error) {
	return decodeTagged[cbor.RawMessage](data, c.dec.Unmarshal)
}
