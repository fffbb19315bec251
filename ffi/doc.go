// Package ffi implements the little-endian wire format used by
// out-of-process or cross-language callers to drive a Processor: a
// length-prefixed command/response framing, and fixed-layout audio and
// meter payloads. It is a codec only: it opens no sockets or pipes.
package ffi
