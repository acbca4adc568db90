package predlog

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	xe "github.com/inferlab/predictd/pkg/errors"
)

// NATSSink publishes records to a NATS subject as JSON messages.
//
// The connection reconnects on its own and buffers published messages
// while the server is away, so a NATS outage degrades to lost records,
// not to failed predictions.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

var _ Sink = &NATSSink{}

// NewNATSSink connects to url and publishes to subject.
//
// The first connection attempt may also happen in the background: an
// unreachable server does not fail construction.
func NewNATSSink(url string, subject string) (*NATSSink, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("predictd"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Write(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return xe.Wrap(err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (s *NATSSink) Close() error {
	// Flush is synchronous, so buffered publishes reach the server
	// before the connection goes away.
	err := s.conn.Flush()
	s.conn.Close()
	return err
}
