// Package window implements a bounded-memory sliding window over a
// forward-only source.
//
// A Reader holds at most WindowSize units of the source in memory. Units are
// produced one at a time with their absolute position in the source; once the
// cursor has moved ChunkSize units past the look-behind area, the oldest chunk
// is dropped and a new one is read. The LookBehind most recent units always
// stay in the buffer, so a scanner can re-examine what it has just passed
// without re-reading the source.
//
//	r, err := window.NewReader[rune](window.Runes(bufio.NewReader(f)), window.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for {
//	    u, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(u.Pos, string(u.Value))
//	}
//
// A Reader is owned by a single consumer. Errors from the source are returned
// unchanged and are sticky.
package window
