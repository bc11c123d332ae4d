package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Mutation errors.
var (
	ErrInvalidOp       = errors.New("protocol: invalid mutation op")
	ErrIncompleteBatch = errors.New("protocol: batch has no final frame")
	ErrMixedBatch      = errors.New("protocol: frames belong to different batches")
)

// field is a bit set of the optional Mutation fields an op carries.
type field uint8

const (
	fParent field = 1 << iota
	fRef
	fNS
	fName
	fValue
)

// opFields lists, per op, the fields present on the wire after Node.
var opFields = map[host.Op]field{
	host.OpCreateElement: fNS | fName | fValue,
	host.OpCreateText:    fValue,
	host.OpCreateComment: fValue,
	host.OpInsert:        fParent | fRef,
	host.OpRemove:        fParent,
	host.OpSetText:       fValue,
	host.OpSetAttr:       fNS | fName | fValue,
	host.OpRemoveAttr:    fNS | fName,
	host.OpSetProp:       fName | fValue,
	host.OpAddClass:      fName,
	host.OpRemoveClass:   fName,
	host.OpSetStyle:      fName | fValue,
	host.OpRemoveStyle:   fName,
	host.OpListen:        fName,
	host.OpUnlisten:      fName,
	host.OpSetContext:    fNS | fValue,
}

// Batch is the decoded content of one or more FrameMutations frames.
type Batch struct {
	Seq       uint64
	Mutations []host.Mutation
}

// EncodeMutation appends one mutation.
func EncodeMutation(e *Encoder, m host.Mutation) error {
	fields, ok := opFields[m.Op]
	if !ok {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidOp, byte(m.Op))
	}
	e.WriteByte(byte(m.Op))
	e.WriteUvarint(uint64(m.Node))
	if fields&fParent != 0 {
		e.WriteUvarint(uint64(m.Parent))
	}
	if fields&fRef != 0 {
		e.WriteUvarint(uint64(m.Ref))
	}
	if fields&fNS != 0 {
		e.WriteString(m.NS)
	}
	if fields&fName != 0 {
		e.WriteString(m.Name)
	}
	if fields&fValue != 0 {
		e.WriteString(m.Value)
	}
	return nil
}

// mutationLen returns the encoded size of m, or -1 for an unknown op.
func mutationLen(m host.Mutation) int {
	fields, ok := opFields[m.Op]
	if !ok {
		return -1
	}
	n := 1 + UvarintLen(uint64(m.Node))
	if fields&fParent != 0 {
		n += UvarintLen(uint64(m.Parent))
	}
	if fields&fRef != 0 {
		n += UvarintLen(uint64(m.Ref))
	}
	if fields&fNS != 0 {
		n += stringLen(m.NS)
	}
	if fields&fName != 0 {
		n += stringLen(m.Name)
	}
	if fields&fValue != 0 {
		n += stringLen(m.Value)
	}
	return n
}

// DecodeMutation reads one mutation.
func DecodeMutation(d *Decoder) (host.Mutation, error) {
	var m host.Mutation

	op, err := d.ReadByte()
	if err != nil {
		return m, err
	}
	m.Op = host.Op(op)
	fields, ok := opFields[m.Op]
	if !ok {
		return m, fmt.Errorf("%w: 0x%02x", ErrInvalidOp, op)
	}

	if m.Node, err = readHandle(d); err != nil {
		return m, err
	}
	if fields&fParent != 0 {
		if m.Parent, err = readHandle(d); err != nil {
			return m, err
		}
	}
	if fields&fRef != 0 {
		if m.Ref, err = readHandle(d); err != nil {
			return m, err
		}
	}
	if fields&fNS != 0 {
		if m.NS, err = d.ReadString(); err != nil {
			return m, err
		}
	}
	if fields&fName != 0 {
		if m.Name, err = d.ReadString(); err != nil {
			return m, err
		}
	}
	if fields&fValue != 0 {
		if m.Value, err = d.ReadString(); err != nil {
			return m, err
		}
	}
	return m, nil
}

func readHandle(d *Decoder) (vdom.Handle, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return vdom.NoHandle, err
	}
	if v > uint64(^uint32(0)) {
		return vdom.NoHandle, ErrVarintOverflow
	}
	return vdom.Handle(v), nil
}

// EncodeBatch encodes a whole batch as a single payload, ignoring
// MaxPayloadSize. Use BatchFrames to produce wire frames.
func EncodeBatch(b *Batch) ([]byte, error) {
	e := NewEncoder()
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Mutations)))
	for _, m := range b.Mutations {
		if err := EncodeMutation(e, m); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

// DecodeBatch decodes one mutations payload.
func DecodeBatch(payload []byte) (*Batch, error) {
	d := NewDecoder(payload)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	b := &Batch{Seq: seq, Mutations: make([]host.Mutation, 0, count)}
	for range count {
		m, err := DecodeMutation(d)
		if err != nil {
			return nil, err
		}
		b.Mutations = append(b.Mutations, m)
	}
	if !d.EOF() {
		return nil, fmt.Errorf("protocol: %d trailing bytes after batch", d.Remaining())
	}
	return b, nil
}

// BatchFrames splits a batch into FrameMutations frames that each fit
// MaxPayloadSize. The last frame carries FlagFinal; an empty batch yields
// a single final frame.
func BatchFrames(b *Batch) ([]*Frame, error) {
	// Room for the sequence number and the widest possible count.
	budget := MaxPayloadSize - UvarintLen(b.Seq) - UvarintLen(MaxCollectionCount)

	var frames []*Frame
	start, size := 0, 0
	flush := func(end int) error {
		payload, err := EncodeBatch(&Batch{Seq: b.Seq, Mutations: b.Mutations[start:end]})
		if err != nil {
			return err
		}
		frames = append(frames, NewFrame(FrameMutations, payload))
		start, size = end, 0
		return nil
	}

	for i, m := range b.Mutations {
		n := mutationLen(m)
		if n < 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidOp, byte(m.Op))
		}
		if n > budget {
			return nil, fmt.Errorf("%w: mutation %d needs %d bytes", ErrFrameTooLarge, i, n)
		}
		if size+n > budget || i-start == MaxCollectionCount {
			if err := flush(i); err != nil {
				return nil, err
			}
		}
		size += n
	}
	if err := flush(len(b.Mutations)); err != nil {
		return nil, err
	}

	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}

// JoinFrames reassembles a batch from its frames, in order. A FrameError
// frame is returned as an *ErrorMessage error.
func JoinFrames(frames []*Frame) (*Batch, error) {
	var out *Batch
	for i, f := range frames {
		switch f.Type {
		case FrameMutations:
		case FrameError:
			em, err := DecodeErrorMessage(f.Payload)
			if err != nil {
				return nil, err
			}
			return nil, em
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidFrameType, f.Type)
		}

		b, err := DecodeBatch(f.Payload)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = b
		} else {
			if b.Seq != out.Seq {
				return nil, fmt.Errorf("%w: seq %d after %d", ErrMixedBatch, b.Seq, out.Seq)
			}
			out.Mutations = append(out.Mutations, b.Mutations...)
		}

		if f.Flags.Has(FlagFinal) {
			if i != len(frames)-1 {
				return nil, fmt.Errorf("%w: final frame at %d of %d", ErrMixedBatch, i+1, len(frames))
			}
			return out, nil
		}
	}
	return nil, ErrIncompleteBatch
}

// WriteBatch writes a batch to w as frames.
func WriteBatch(w io.Writer, b *Batch) error {
	frames, err := BatchFrames(b)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := WriteFrame(w, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadBatch reads frames from r up to and including the final frame of a
// batch. It returns io.EOF when r is exhausted before any frame.
func ReadBatch(r io.Reader) (*Batch, error) {
	var frames []*Frame
	for {
		f, err := ReadFrame(r)
		if err != nil {
			if errors.Is(err, io.EOF) && len(frames) > 0 {
				return nil, ErrIncompleteBatch
			}
			return nil, err
		}
		frames = append(frames, f)
		if f.Flags.Has(FlagFinal) || f.Type == FrameError {
			return JoinFrames(frames)
		}
	}
}
