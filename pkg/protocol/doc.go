// Package protocol implements the binary wire format for host mutation
// journals.
//
// A remote host replays the mutations a patch produced against its own
// node table, so a reconciler can drive a tree it does not hold in memory.
// Handles on the wire are the reconciler's handles; the remote side maps
// them to its nodes.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameMutations (0x02): a batch of host mutations
//   - FrameError (0x05): a reconciler error
//
// A batch larger than one frame is split across several FrameMutations
// frames sharing a sequence number; the last one carries FlagFinal.
//
// # Mutations
//
// A mutations payload is:
//
//	[Seq: varint][Count: varint][Mutation]*
//
// and each mutation is an opcode, the target handle and op-specific fields:
//
//	[Op: byte][Node: varint][fields...]
//
// Strings are varint length-prefixed UTF-8.
package protocol
