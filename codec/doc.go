// Package codec encodes and decodes archive record streams.
//
// The wire format is POSIX tar as implemented by archive/tar, optionally
// wrapped in a gzip, zstd or lz4 frame. Encoders are push-based: write a
// Header, then exactly Header.Size body bytes. Decoders are pull-based:
// Next yields the following Header and Read returns its body.
//
//	enc, err := codec.NewEncoder(w, codec.WithCompression(codec.Zstd))
//	if err != nil {
//	    return err
//	}
//	if err := enc.WriteHeader(&codec.Header{Name: "a.txt", Type: codec.TypeFile, Mode: 0o644, Size: 5}); err != nil {
//	    return err
//	}
//	if _, err := enc.Write([]byte("hello")); err != nil {
//	    return err
//	}
//	return enc.Close()
//
// Decoders detect compression from the stream's magic bytes.
package codec
