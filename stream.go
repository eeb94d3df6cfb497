package cbor

import "io"

// An Encoder writes a sequence of CBOR data items to an output stream.
type Encoder struct {
	w    io.Writer
	opts EncOptions
	buf  []byte
	err  error
}

// NewEncoder returns a new encoder that writes to w with the default
// (deterministic) options.
func NewEncoder(w io.Writer) *Encoder {
	return EncOptions{}.NewEncoder(w)
}

// NewEncoder returns a new encoder that writes to w with opts.
func (opts EncOptions) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the CBOR encoding of v to the stream.
// A value that cannot be encoded writes nothing. After a write error
// every call returns that error.
func (enc *Encoder) Encode(v Value) error {
	if enc.err != nil {
		return enc.err
	}

	data, err := enc.opts.Append(enc.buf[:0], v)
	if err != nil {
		return err
	}
	enc.buf = data

	if _, err := enc.w.Write(data); err != nil {
		enc.err = err
		return err
	}
	return nil
}
