// Package tftp implements the TFTP protocol analyzer.
package tftp

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/krsnat/bro"
)

// TFTP opcodes, RFC 1350.
const (
	opRRQ   = 1
	opWRQ   = 2
	opDATA  = 3
	opACK   = 4
	opERROR = 5
)

// Request is a parsed read or write request.
type Request struct {
	Write    bool
	Filename string
	Mode     string
}

// Options for New. Zero value is valid.
type Options struct {
	Logger *zap.Logger
	// OnRequest is invoked for every parsed read or write request.
	OnRequest func(Request)
}

// Analyzer parses TFTP packets.
type Analyzer struct {
	lg        *zap.Logger
	onRequest func(Request)
}

// New returns a TFTP analyzer.
func New(opt Options) *Analyzer {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Analyzer{
		lg:        opt.Logger,
		onRequest: opt.OnRequest,
	}
}

// Name implements bro.Analyzer.
func (a *Analyzer) Name() string { return "TFTP" }

// DeliverPacket implements bro.Analyzer.
func (a *Analyzer) DeliverPacket(ctx context.Context, orig bool, payload []byte) error {
	if len(payload) < 2 {
		return errors.New("short packet")
	}
	op := binary.BigEndian.Uint16(payload)
	body := payload[2:]

	switch op {
	case opRRQ, opWRQ:
		req, err := parseRequest(op == opWRQ, body)
		if err != nil {
			return errors.Wrap(err, "request")
		}
		a.lg.Debug("Request",
			zap.Bool("write", req.Write),
			zap.String("filename", req.Filename),
			zap.String("mode", req.Mode),
		)
		if a.onRequest != nil {
			a.onRequest(req)
		}
	case opDATA:
		if len(body) < 2 {
			return errors.New("short data packet")
		}
	case opACK:
		if len(body) != 2 {
			return errors.New("bad ack packet")
		}
	case opERROR:
		if len(body) < 3 || body[len(body)-1] != 0 {
			return errors.New("bad error packet")
		}
	default:
		return errors.Errorf("unknown opcode %d", op)
	}
	return nil
}

// parseRequest decodes "filename\x00mode\x00".
func parseRequest(write bool, body []byte) (Request, error) {
	parts := bytes.Split(body, []byte{0})
	// Trailing NUL makes the last part empty.
	if len(parts) < 3 || len(parts[len(parts)-1]) != 0 {
		return Request{}, errors.New("malformed request body")
	}
	if len(parts[0]) == 0 {
		return Request{}, errors.New("empty filename")
	}
	return Request{
		Write:    write,
		Filename: string(parts[0]),
		Mode:     string(parts[1]),
	}, nil
}

func init() {
	bro.MustRegister(bro.Registration{
		Name:        "TFTP",
		Description: "TFTP analyzer",
		EventFile:   "events.bif",
		New:         func() bro.Analyzer { return New(Options{}) },
	})
}
