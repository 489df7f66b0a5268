package espnow

import (
	"github.com/dungph/yanet-go/codec"
)

type packetKind byte

const (
	packetPing packetKind = iota
	packetPong
	packetBegin
	packetMessage
)

// packet is the tagged union RawPacket.payload from spec §4.4:
// Ping{online} | Pong{online} | Begin | Message(bytes).
type packet struct {
	kind    packetKind
	online  bool
	message []byte
}

// rawPacket pairs a packet with its intended recipient. destination == nil
// means broadcast-intent; the receiver must otherwise drop the packet if
// its own MAC doesn't match.
type rawPacket struct {
	destination *MAC
	payload     packet
}

func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func encodeRawPacket(rp rawPacket) []byte {
	e := codec.NewEncoder()
	if rp.destination != nil {
		e.WriteTag(1)
		e.WriteBytes(rp.destination[:])
	} else {
		e.WriteTag(0)
	}
	e.WriteTag(byte(rp.payload.kind))
	switch rp.payload.kind {
	case packetPing, packetPong:
		e.WriteTag(encodeBool(rp.payload.online))
	case packetBegin:
	case packetMessage:
		e.WriteBytes(rp.payload.message)
	}
	return e.Bytes()
}

func decodeRawPacket(buf []byte) (rawPacket, error) {
	d := codec.NewDecoder(buf)

	hasDest, err := d.ReadTag()
	if err != nil {
		return rawPacket{}, err
	}
	var dest *MAC
	if hasDest == 1 {
		b, err := d.ReadBytes()
		if err != nil {
			return rawPacket{}, err
		}
		if len(b) != len(MAC{}) {
			return rawPacket{}, codec.ErrTruncated
		}
		var mac MAC
		copy(mac[:], b)
		dest = &mac
	}

	kind, err := d.ReadTag()
	if err != nil {
		return rawPacket{}, err
	}
	p := packet{kind: packetKind(kind)}
	switch p.kind {
	case packetPing, packetPong:
		onlineByte, err := d.ReadTag()
		if err != nil {
			return rawPacket{}, err
		}
		p.online = onlineByte != 0
	case packetBegin:
	case packetMessage:
		b, err := d.ReadBytes()
		if err != nil {
			return rawPacket{}, err
		}
		p.message = append([]byte(nil), b...)
	default:
		return rawPacket{}, codec.ErrTruncated
	}
	if err := d.RequireDone(); err != nil {
		return rawPacket{}, err
	}
	return rawPacket{destination: dest, payload: p}, nil
}
