package noisesession

import (
	"github.com/dungph/yanet-go/codec"
	"github.com/dungph/yanet-go/core"
)

// Frame tags used once a session has reached transport state. Before that,
// handshake messages travel unwrapped (see session.go).
const (
	tagPayload      byte = 0
	tagRehandshake1 byte = 1
	tagRehandshake2 byte = 2
)

func encodePayload(nonce uint64, ciphertext []byte) core.Frame {
	e := codec.NewEncoder()
	e.WriteTag(tagPayload)
	e.WriteUint64(nonce)
	e.WriteBytes(ciphertext)
	return core.Frame(e.Bytes())
}

func encodeRehandshake1(msg []byte) core.Frame {
	e := codec.NewEncoder()
	e.WriteTag(tagRehandshake1)
	e.WriteBytes(msg)
	return core.Frame(e.Bytes())
}

func encodeRehandshake2(msg []byte) core.Frame {
	e := codec.NewEncoder()
	e.WriteTag(tagRehandshake2)
	e.WriteBytes(msg)
	return core.Frame(e.Bytes())
}

// decodedFrame is the parsed form of a tagged transport-phase frame.
type decodedFrame struct {
	tag   byte
	nonce uint64
	data  []byte
}

func decodeFrame(f core.Frame) (decodedFrame, error) {
	d := codec.NewDecoder(f)
	tag, err := d.ReadTag()
	if err != nil {
		return decodedFrame{}, err
	}
	out := decodedFrame{tag: tag}
	switch tag {
	case tagPayload:
		out.nonce, err = d.ReadUint64()
		if err != nil {
			return decodedFrame{}, err
		}
		data, err := d.ReadBytes()
		if err != nil {
			return decodedFrame{}, err
		}
		out.data = append([]byte(nil), data...)
	case tagRehandshake1, tagRehandshake2:
		data, err := d.ReadBytes()
		if err != nil {
			return decodedFrame{}, err
		}
		out.data = append([]byte(nil), data...)
	default:
		return decodedFrame{}, ErrUnexpectedFrame
	}
	if err := d.RequireDone(); err != nil {
		return decodedFrame{}, err
	}
	return out, nil
}
