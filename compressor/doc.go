// Package compressor implements a soft-knee feed-forward dynamic-range
// compressor with automatic makeup gain and a small preset table.
package compressor
