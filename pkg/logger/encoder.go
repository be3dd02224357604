package logger

import (
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// prefixEncoder writes a fixed prefix in front of every console line, so
// several instances sharing one journal can be told apart.
type prefixEncoder struct {
	zapcore.Encoder

	pool   buffer.Pool
	prefix string
}

func newPrefixEncoder(enc zapcore.Encoder, prefix string) zapcore.Encoder {
	return &prefixEncoder{
		Encoder: enc,
		pool:    buffer.NewPool(),
		prefix:  prefix,
	}
}

func (e *prefixEncoder) Clone() zapcore.Encoder {
	return &prefixEncoder{
		Encoder: e.Encoder.Clone(),
		pool:    e.pool,
		prefix:  e.prefix,
	}
}

func (e *prefixEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := e.pool.Get()

	buf.AppendString(e.prefix)
	buf.AppendString(" ")

	line, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		buf.Free()
		return nil, err
	}
	defer line.Free()

	if _, err = buf.Write(line.Bytes()); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}
