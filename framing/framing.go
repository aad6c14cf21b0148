// Package framing decodes length-delimited messages out of the
// buffers delivered by completed read Jobs. It is a consumer-side
// convenience built on top of job completions, not a core feature:
// the pool itself only ever deals in flat byte buffers.
package framing

import (
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/smallnest/goframe"
)

// pipeConn adapts an io.Reader into the net.Conn shape goframe's
// frame decoder expects, so it can decode frames out of a byte stream
// fed from read-Job completions instead of reading a socket itself.
type pipeConn struct {
	r io.Reader
}

func (c *pipeConn) Read(p []byte) (int, error)       { return c.r.Read(p) }
func (c *pipeConn) Write(p []byte) (int, error)      { return len(p), nil }
func (c *pipeConn) Close() error                     { return nil }
func (c *pipeConn) LocalAddr() net.Addr              { return nil }
func (c *pipeConn) RemoteAddr() net.Addr             { return nil }
func (c *pipeConn) SetDeadline(time.Time) error      { return nil }
func (c *pipeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *pipeConn) SetWriteDeadline(time.Time) error { return nil }

// Assembler decodes a stream of length-delimited frames out of the
// byte slices fed to it as read Jobs complete.
type Assembler struct {
	pw   *io.PipeWriter
	conn goframe.FrameConn
}

// NewAssembler builds an Assembler for frames carrying a headerLen
// byte, big-endian length prefix that counts only the payload
// following it.
func NewAssembler(headerLen int) *Assembler {
	pr, pw := io.Pipe()
	conn := &pipeConn{r: pr}

	fc := goframe.NewLengthFieldBasedFrameConn(
		goframe.EncoderConfig{
			ByteOrder:                       binary.BigEndian,
			LengthFieldLength:               headerLen,
			LengthIncludesLengthFieldLength: false,
		},
		goframe.DecoderConfig{
			ByteOrder:           binary.BigEndian,
			LengthFieldOffset:   0,
			LengthFieldLength:   headerLen,
			LengthAdjustment:    0,
			InitialBytesToStrip: headerLen,
		},
		conn,
	)

	return &Assembler{pw: pw, conn: fc}
}

// Feed appends a completed read Job's buffer to the stream being
// decoded. Safe to call from the worker goroutine that owns the
// completion, though Feed itself may block if NextFrame isn't keeping
// up, so callers with a latency budget should feed from a dedicated
// goroutine.
func (a *Assembler) Feed(buf []byte) error {
	_, err := a.pw.Write(buf)
	return err
}

// NextFrame blocks until a complete frame is decoded. Once Close has
// been called and all fed bytes are consumed, it returns io.EOF.
func (a *Assembler) NextFrame() ([]byte, error) {
	return a.conn.ReadFrame()
}

// Close signals that no more bytes will be fed, causing a blocked
// NextFrame to unblock with io.EOF once buffered bytes are exhausted.
func (a *Assembler) Close() error {
	return a.pw.Close()
}
