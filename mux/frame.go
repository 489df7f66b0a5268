package mux

import (
	"github.com/dungph/yanet-go/codec"
	"github.com/dungph/yanet-go/core"
)

func encodeMuxFrame(service string, payload core.Frame) core.Frame {
	e := codec.NewEncoder()
	e.WriteBytes([]byte(service))
	e.WriteBytes(payload)
	return core.Frame(e.Bytes())
}

func decodeMuxFrame(f core.Frame) (service string, payload core.Frame, err error) {
	d := codec.NewDecoder(f)
	name, err := d.ReadBytes()
	if err != nil {
		return "", nil, err
	}
	body, err := d.ReadBytes()
	if err != nil {
		return "", nil, err
	}
	if err := d.RequireDone(); err != nil {
		return "", nil, err
	}
	return string(name), core.Frame(append([]byte(nil), body...)), nil
}
