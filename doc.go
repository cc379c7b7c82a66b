/*
Package ktx implements the KTX 1.1 texture container codec for
block-compressed textures.

A container stores a fixed header (identifier, endianness marker and twelve
uint32 fields), a key/value annotation section and the image section, where
every mipmap level is a uint32 size followed by one entry per array layer
and cube face. All sections are padded to 4 bytes.

Encode packs already-compressed level buffers into one exactly sized buffer.
Decode resolves the level offsets from a buffer held in memory and returns
views into it, without copying level data. DecodeIntermediate reads the
small .astc header written by ASTC encoders. ReadFile and WriteFile add
optional LZ4 or zstd outer compression for storage.
*/
package ktx
