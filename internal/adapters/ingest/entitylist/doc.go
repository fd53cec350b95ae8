// Package entitylist streams the lines of a (usually compressed) entity list
//
// Design choices:
// - Compression is sniffed from the first bytes (gzip 1f8b, zstd 28b52ffd) so stdin works too.
// - klauspost/compress handles both codecs; concatenated gzip members are read as one stream.
// - bufio.Scanner with a 32MB cap; a longer line is a fatal read error, not a skip.
// - One line in memory at a time.
package entitylist
